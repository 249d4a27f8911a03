/*
Package errors provides semantic error types for the dynamoentity library.

Errors fall in two groups. Definition errors are raised while resolving the key
schema of an entity type, either by the entitygen generator or by the registry:

	var (
	    ErrMissingHashKey   = errors.New("missing hash key")
	    ErrUnsupportedShape = errors.New("unsupported entity shape")
	    ErrMalformedOption  = errors.New("malformed key option")
	    ErrAmbiguousKey     = errors.New("ambiguous key declaration")
	)

Storage errors are returned by the data access object at run time:

	var (
	    ErrBackendOperationFailed = errors.New("backend operation failed")
	    ErrSerializationFailed    = errors.New("serialization failed")
	    ErrMissingConfiguration   = errors.New("missing configuration")
	)

Usage:

	profile, err := dao.Load(ctx, key)
	if err != nil {
	    if errors.IsSerializationFailure(err) {
	        // stored item doesn't match the Go type
	    }
	    return nil, err
	}
	if profile == nil {
	    // absent, not an error
	}

StorageError wraps the original DynamoDB error, so errors.As works for SDK
exception types and IsConditionFailed detects rejected conditional writes.
*/
package errors
