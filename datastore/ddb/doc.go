/*
Package ddb provides the DynamoDB data access object of dynamoentity.

A Dao binds one entity type and its key type to one table. Any number of Dao
values may share a single client:

	client, err := ddb.NewDynamoDBClient(ctx, ddb.Config{Region: "eu-central-1"})
	profiles, err := ddb.NewDao[Profile, ProfileKey](client, "profiles")
	orders, err := ddb.NewDao[Order, OrderKey](client, "orders")

Key Features:

Entity contract:
Types with generated (or hand-written) HashKeyName and BuildKey methods use
them directly. Other types are mapped through their dynamoentity struct tags,
resolved once by the registry; prefixed sort keys then narrow queries with
begins_with and constant sort keys are enforced on save.

Pagination:
Query and QueryIndex return one page and a continuation cursor:

	page, err := orders.Query(ctx, "customer-1", nil)
	next, err := orders.Query(ctx, "customer-1", page.Continuation)

Secondary indexes:
The Index builder adds sort key conditions on top of QueryIndex:

	page, err := orders.Index(ddb.IndexConfig{IndexName: "GSI1", HashKeyName: "PK1", SortKeyName: "SK1"}).
	    WithSortKeyPrefix("2025-").
	    Page(ctx, "OPEN", nil)

Time ranges:
Index sort keys holding RFC 3339 timestamps can be selected by time, and
QueryTimeWindows walks a range window by window:

	recent, err := orders.QueryByTimeRange(gsi1).InLast(24 * time.Hour).Latest().All(ctx, "OPEN")

Tables:
CreateTable derives a table definition from a registered key schema, which
is mostly useful against DynamoDB Local.

The package performs no retries, caching or locking. Retry and timeout
behaviour belong to the client configuration.
*/
package ddb
