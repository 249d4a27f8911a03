/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ResultPage is one decoded page of a query.
type ResultPage[T any, K any] struct {
	// Items holds the decoded entities in the order DynamoDB returned them.
	Items []T
	// Continuation is the cursor of the next page. It is nil on the last page.
	Continuation *K
}

// HasMore reports whether another page can be requested.
func (p *ResultPage[T, K]) HasMore() bool {
	return p.Continuation != nil
}

// IndexKey is the continuation cursor of secondary index queries. It holds the
// index key attributes together with the table key attributes.
type IndexKey = map[string]types.AttributeValue
