/*
Package storagemodels defines the data structures returned by dynamoentity data stores.

Key Types:

ResultPage:
One decoded page of a query plus the cursor of the next page:

	page, err := dao.Query(ctx, "customer-1", nil)
	for page.HasMore() {
	    page, err = dao.Query(ctx, "customer-1", page.Continuation)
	}

StreamResult:
Results from streaming operations with metadata:

	type StreamResult[T any] struct {
	    Item  T          // The typed entity
	    Error error      // Set when a page could not be fetched
	    Meta  StreamMeta // Metadata about this item
	}

StreamOptions:
Configuration for streaming behavior:

	opts := []StreamOption{
	    WithBufferSize(100),
	    WithPageSize(25),
	    WithProgressHandler(progressFunc),
	}
*/
package storagemodels
