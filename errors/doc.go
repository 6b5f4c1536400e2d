/*
Package errors provides semantic error types for entitycache.

Lookups, identity extraction and persistence fail with typed errors that can be
checked with the standard errors.Is() function or the provided helpers.

Common Errors:

	var (
	    ErrNotFound        = errors.New("not found")
	    ErrInvalidInput    = errors.New("invalid input")
	    ErrMissingIdentity = errors.New("missing identity")
	    ErrInvalidKey      = errors.New("invalid identity key")
	    ErrConditionFailed = errors.New("condition check failed")
	    ErrNoIndexMap      = errors.New("no index map found for type")
	)

Usage:

	res, err := normalize.Normalize(reg, userType, data)
	if err != nil {
	    if errors.IsNotFound(err) {
	        // a relationship names a type that was never registered
	    }
	    if errors.IsMissingIdentity(err) {
	        // a nested record has no id field
	    }
	    return err
	}

The error types implement the error interface and survive wrapping with %w.
*/
package errors
