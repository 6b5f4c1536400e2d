/*
Package config loads entity type catalogs and backend settings.

A catalog is a YAML file declaring entity types, their identity and sort
fields, relationships and optional seed data:

	types:
	  - name: ticket
	  - name: user
	    sortField: name
	    relations:
	      - {key: tickets, type: ticket, many: true}
	    seed:
	      - {id: u-1, name: one, tickets: [{id: t-1}]}

BuildStore registers every type in catalog order, seeding those that carry
seed data. LoadEnv reads DynamoDB settings from the environment and an
optional .env file.
*/
package config
