/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mock

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"

	"github.com/suparena/dynamoentity/datastore/ddb"
)

var _ ddb.TableClient = (*Client)(nil)

// Index describes a global secondary index of a fake table.
type Index struct {
	Name    string
	HashKey string
	SortKey string
}

// Client is an in-memory DynamoDB fake implementing ddb.TableClient.
//
// Key conditions are evaluated for the forms produced by the expression
// package and by the begins_with clause appended for prefixed sort keys:
// comparisons, BETWEEN and begins_with, joined with AND. Filter and update
// expressions are not supported. PutItem and DeleteItem honour
// attribute_exists and attribute_not_exists conditions.
type Client struct {
	mu     sync.RWMutex
	tables map[string]*table
	errs   map[string]error
	calls  []string

	lastQuery *sdk.QueryInput
	lastPut   *sdk.PutItemInput

	// MaxPageSize caps the number of items per Query page. Zero means unlimited.
	MaxPageSize int
}

type table struct {
	hashKey string
	sortKey string
	indexes map[string]Index
	items   map[string]map[string]types.AttributeValue
}

// NewClient creates an empty fake.
func NewClient() *Client {
	return &Client{
		tables: make(map[string]*table),
		errs:   make(map[string]error),
	}
}

// AddTable defines a table with the given key attributes. sortKey may be empty.
func (c *Client) AddTable(name, hashKey, sortKey string, indexes ...Index) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &table{
		hashKey: hashKey,
		sortKey: sortKey,
		indexes: make(map[string]Index, len(indexes)),
		items:   make(map[string]map[string]types.AttributeValue),
	}
	for _, idx := range indexes {
		t.indexes[idx.Name] = idx
	}
	c.tables[name] = t
	return c
}

// WithMaxPageSize caps the page size of every query.
func (c *Client) WithMaxPageSize(n int) *Client {
	c.MaxPageSize = n
	return c
}

// WithError makes the named operation ("PutItem", "GetItem", "DeleteItem",
// "Query", ...) fail with err. A nil err clears the injected failure.
func (c *Client) WithError(op string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err == nil {
		delete(c.errs, op)
	} else {
		c.errs[op] = err
	}
	return c
}

// Calls returns the operations received so far, in order.
func (c *Client) Calls() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.calls...)
}

// LastQuery returns the most recent Query request.
func (c *Client) LastQuery() *sdk.QueryInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastQuery
}

// LastPut returns the most recent PutItem request.
func (c *Client) LastPut() *sdk.PutItemInput {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastPut
}

// Items returns a copy of every item stored in a table.
func (c *Client) Items(tableName string) []map[string]types.AttributeValue {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[tableName]
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]map[string]types.AttributeValue, 0, len(keys))
	for _, k := range keys {
		items = append(items, copyItem(t.items[k]))
	}
	return items
}

func (c *Client) begin(op string, tableName *string) (*table, error) {
	c.calls = append(c.calls, op)
	if err := c.errs[op]; err != nil {
		return nil, err
	}
	t, ok := c.tables[aws.ToString(tableName)]
	if !ok {
		return nil, &types.ResourceNotFoundException{
			Message: aws.String(fmt.Sprintf("table %s not found", aws.ToString(tableName))),
		}
	}
	return t, nil
}

// PutItem stores an item, replacing any item with the same key.
func (c *Client) PutItem(_ context.Context, params *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("PutItem", params.TableName)
	if err != nil {
		return nil, err
	}
	c.lastPut = params

	key, err := t.keyOf(params.Item)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(params.ConditionExpression, params.ExpressionAttributeNames, t.items[key]); err != nil {
		return nil, err
	}

	t.items[key] = copyItem(params.Item)
	return &sdk.PutItemOutput{}, nil
}

// GetItem returns the item stored under the key, or no item.
func (c *Client) GetItem(_ context.Context, params *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("GetItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.exactKeyOf(params.Key)
	if err != nil {
		return nil, err
	}

	item, ok := t.items[key]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: copyItem(item)}, nil
}

// DeleteItem removes the item stored under the key. Missing items are ignored.
func (c *Client) DeleteItem(_ context.Context, params *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("DeleteItem", params.TableName)
	if err != nil {
		return nil, err
	}
	key, err := t.exactKeyOf(params.Key)
	if err != nil {
		return nil, err
	}
	if err := checkCondition(params.ConditionExpression, params.ExpressionAttributeNames, t.items[key]); err != nil {
		return nil, err
	}

	delete(t.items, key)
	return &sdk.DeleteItemOutput{}, nil
}

// Query evaluates the key condition against the table or one of its indexes.
func (c *Client) Query(_ context.Context, params *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("Query", params.TableName)
	if err != nil {
		return nil, err
	}
	c.lastQuery = params
	if params.Limit != nil && *params.Limit < 1 {
		return nil, validationError("limit must be greater than or equal to 1")
	}

	hashKey, sortKey := t.hashKey, t.sortKey
	if name := aws.ToString(params.IndexName); name != "" {
		idx, ok := t.indexes[name]
		if !ok {
			return nil, validationError("the table does not have the specified index: %s", name)
		}
		hashKey, sortKey = idx.HashKey, idx.SortKey
	}

	conds, err := parseKeyCondition(aws.ToString(params.KeyConditionExpression), params.ExpressionAttributeNames, params.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}
	if !hasEquality(conds, hashKey) {
		return nil, validationError("query condition missed key schema element: %s", hashKey)
	}

	var matched []map[string]types.AttributeValue
	for _, item := range t.items {
		if _, ok := item[hashKey]; !ok {
			continue
		}
		if sortKey != "" {
			if _, ok := item[sortKey]; !ok {
				continue
			}
		}
		if matchAll(conds, item) {
			matched = append(matched, item)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if sortKey != "" {
			if cmp := compareValues(matched[i][sortKey], matched[j][sortKey]); cmp != 0 {
				return cmp < 0
			}
		}
		return t.mustKey(matched[i]) < t.mustKey(matched[j])
	})
	if params.ScanIndexForward != nil && !*params.ScanIndexForward {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	start := 0
	if len(params.ExclusiveStartKey) > 0 {
		startKey, err := t.keyOf(params.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		for i, item := range matched {
			if t.mustKey(item) == startKey {
				start = i + 1
				break
			}
		}
	}
	matched = matched[start:]

	limit := len(matched)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}
	if c.MaxPageSize > 0 && c.MaxPageSize < limit {
		limit = c.MaxPageSize
	}

	out := &sdk.QueryOutput{Items: make([]map[string]types.AttributeValue, 0, limit)}
	for _, item := range matched[:limit] {
		out.Items = append(out.Items, copyItem(item))
	}
	out.Count = int32(len(out.Items))
	out.ScannedCount = out.Count

	if limit < len(matched) {
		last := matched[limit-1]
		lek := map[string]types.AttributeValue{}
		for _, name := range []string{t.hashKey, t.sortKey, hashKey, sortKey} {
			if name != "" {
				lek[name] = last[name]
			}
		}
		out.LastEvaluatedKey = lek
	}
	return out, nil
}

// CreateTable defines a table from its key schema and global secondary indexes.
func (c *Client) CreateTable(_ context.Context, params *sdk.CreateTableInput, _ ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	c.mu.Lock()
	name := aws.ToString(params.TableName)
	c.calls = append(c.calls, "CreateTable")
	if err := c.errs["CreateTable"]; err != nil {
		c.mu.Unlock()
		return nil, err
	}
	if _, exists := c.tables[name]; exists {
		c.mu.Unlock()
		return nil, &types.ResourceInUseException{Message: aws.String("table already exists: " + name)}
	}
	c.mu.Unlock()

	hashKey, sortKey := keySchemaOf(params.KeySchema)
	var indexes []Index
	for _, gsi := range params.GlobalSecondaryIndexes {
		h, s := keySchemaOf(gsi.KeySchema)
		indexes = append(indexes, Index{Name: aws.ToString(gsi.IndexName), HashKey: h, SortKey: s})
	}
	c.AddTable(name, hashKey, sortKey, indexes...)

	return &sdk.CreateTableOutput{
		TableDescription: &types.TableDescription{
			TableName:   params.TableName,
			KeySchema:   params.KeySchema,
			TableStatus: types.TableStatusActive,
		},
	}, nil
}

// DeleteTable drops a table and its items.
func (c *Client) DeleteTable(_ context.Context, params *sdk.DeleteTableInput, _ ...func(*sdk.Options)) (*sdk.DeleteTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.begin("DeleteTable", params.TableName); err != nil {
		return nil, err
	}
	delete(c.tables, aws.ToString(params.TableName))
	return &sdk.DeleteTableOutput{}, nil
}

// DescribeTable reports every defined table as active.
func (c *Client) DescribeTable(_ context.Context, params *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t, err := c.begin("DescribeTable", params.TableName)
	if err != nil {
		return nil, err
	}

	desc := &types.TableDescription{
		TableName:   params.TableName,
		TableStatus: types.TableStatusActive,
		ItemCount:   aws.Int64(int64(len(t.items))),
		KeySchema: []types.KeySchemaElement{{
			AttributeName: aws.String(t.hashKey),
			KeyType:       types.KeyTypeHash,
		}},
	}
	if t.sortKey != "" {
		desc.KeySchema = append(desc.KeySchema, types.KeySchemaElement{
			AttributeName: aws.String(t.sortKey),
			KeyType:       types.KeyTypeRange,
		})
	}
	return &sdk.DescribeTableOutput{Table: desc}, nil
}

// keyOf encodes the table key of an item.
func (t *table) keyOf(item map[string]types.AttributeValue) (string, error) {
	hash, ok := item[t.hashKey]
	if !ok {
		return "", validationError("missing the key %s in the item", t.hashKey)
	}
	key := encodeValue(hash)
	if t.sortKey != "" {
		sortValue, ok := item[t.sortKey]
		if !ok {
			return "", validationError("missing the key %s in the item", t.sortKey)
		}
		key += "|" + encodeValue(sortValue)
	}
	return key, nil
}

// exactKeyOf encodes a key map and rejects attributes outside the key schema.
func (t *table) exactKeyOf(key map[string]types.AttributeValue) (string, error) {
	want := 1
	if t.sortKey != "" {
		want = 2
	}
	if len(key) != want {
		return "", validationError("the provided key element does not match the schema")
	}
	return t.keyOf(key)
}

func (t *table) mustKey(item map[string]types.AttributeValue) string {
	key, _ := t.keyOf(item)
	return key
}

func keySchemaOf(elements []types.KeySchemaElement) (hashKey, sortKey string) {
	for _, e := range elements {
		switch e.KeyType {
		case types.KeyTypeHash:
			hashKey = aws.ToString(e.AttributeName)
		case types.KeyTypeRange:
			sortKey = aws.ToString(e.AttributeName)
		}
	}
	return hashKey, sortKey
}

type keyCondition struct {
	attribute string
	op        string
	values    []types.AttributeValue
}

var (
	beginsWithPattern = regexp.MustCompile(`begins_with\s*\(\s*(#?\w+)\s*,\s*(:\w+)\s*\)`)
	betweenPattern    = regexp.MustCompile(`(#?\w+)\s+BETWEEN\s+(:\w+)\s+AND\s+(:\w+)`)
	comparePattern    = regexp.MustCompile(`(#?\w+)\s*(<=|>=|=|<|>)\s*(:\w+)`)
	existsPattern     = regexp.MustCompile(`(attribute_exists|attribute_not_exists)\s*\(\s*(#?\w+)\s*\)`)
)

func parseKeyCondition(expr string, names map[string]string, values map[string]types.AttributeValue) ([]keyCondition, error) {
	resolveName := func(n string) (string, error) {
		if !strings.HasPrefix(n, "#") {
			return n, nil
		}
		name, ok := names[n]
		if !ok {
			return "", validationError("unresolved attribute name placeholder %s", n)
		}
		return name, nil
	}
	resolveValues := func(refs ...string) ([]types.AttributeValue, error) {
		out := make([]types.AttributeValue, 0, len(refs))
		for _, ref := range refs {
			v, ok := values[ref]
			if !ok {
				return nil, validationError("unresolved attribute value placeholder %s", ref)
			}
			out = append(out, v)
		}
		return out, nil
	}

	var conds []keyCondition
	add := func(op string, match []string) error {
		name, err := resolveName(match[1])
		if err != nil {
			return err
		}
		vals, err := resolveValues(match[2:]...)
		if err != nil {
			return err
		}
		conds = append(conds, keyCondition{attribute: name, op: op, values: vals})
		return nil
	}

	for _, m := range beginsWithPattern.FindAllStringSubmatch(expr, -1) {
		if err := add("begins_with", m); err != nil {
			return nil, err
		}
	}
	for _, m := range betweenPattern.FindAllStringSubmatch(expr, -1) {
		if err := add("between", m); err != nil {
			return nil, err
		}
	}
	for _, m := range comparePattern.FindAllStringSubmatch(expr, -1) {
		if err := add(m[2], []string{m[0], m[1], m[3]}); err != nil {
			return nil, err
		}
	}
	if len(conds) == 0 {
		return nil, validationError("unsupported key condition expression: %q", expr)
	}
	return conds, nil
}

func hasEquality(conds []keyCondition, attribute string) bool {
	for _, c := range conds {
		if c.attribute == attribute && c.op == "=" {
			return true
		}
	}
	return false
}

func matchAll(conds []keyCondition, item map[string]types.AttributeValue) bool {
	for _, c := range conds {
		v, ok := item[c.attribute]
		if !ok {
			return false
		}
		switch c.op {
		case "begins_with":
			s, ok := v.(*types.AttributeValueMemberS)
			prefix, pok := c.values[0].(*types.AttributeValueMemberS)
			if !ok || !pok || !strings.HasPrefix(s.Value, prefix.Value) {
				return false
			}
		case "between":
			if compareValues(v, c.values[0]) < 0 || compareValues(v, c.values[1]) > 0 {
				return false
			}
		case "=":
			if compareValues(v, c.values[0]) != 0 {
				return false
			}
		case "<":
			if compareValues(v, c.values[0]) >= 0 {
				return false
			}
		case "<=":
			if compareValues(v, c.values[0]) > 0 {
				return false
			}
		case ">":
			if compareValues(v, c.values[0]) <= 0 {
				return false
			}
		case ">=":
			if compareValues(v, c.values[0]) < 0 {
				return false
			}
		}
	}
	return true
}

func checkCondition(expr *string, names map[string]string, existing map[string]types.AttributeValue) error {
	if expr == nil {
		return nil
	}
	for _, m := range existsPattern.FindAllStringSubmatch(*expr, -1) {
		name := m[2]
		if strings.HasPrefix(name, "#") {
			name = names[name]
		}
		_, present := existing[name]
		if (m[1] == "attribute_exists") != present {
			return &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	return nil
}

// compareValues orders two scalar attribute values of the same type.
func compareValues(a, b types.AttributeValue) int {
	switch av := a.(type) {
	case *types.AttributeValueMemberS:
		if bv, ok := b.(*types.AttributeValueMemberS); ok {
			return strings.Compare(av.Value, bv.Value)
		}
	case *types.AttributeValueMemberN:
		if bv, ok := b.(*types.AttributeValueMemberN); ok {
			x, _ := strconv.ParseFloat(av.Value, 64)
			y, _ := strconv.ParseFloat(bv.Value, 64)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case *types.AttributeValueMemberB:
		if bv, ok := b.(*types.AttributeValueMemberB); ok {
			return bytes.Compare(av.Value, bv.Value)
		}
	}
	return strings.Compare(encodeValue(a), encodeValue(b))
}

func encodeValue(v types.AttributeValue) string {
	switch tv := v.(type) {
	case *types.AttributeValueMemberS:
		return "S:" + tv.Value
	case *types.AttributeValueMemberN:
		return "N:" + tv.Value
	case *types.AttributeValueMemberB:
		return "B:" + base64.StdEncoding.EncodeToString(tv.Value)
	case *types.AttributeValueMemberBOOL:
		return "BOOL:" + strconv.FormatBool(tv.Value)
	case *types.AttributeValueMemberNULL:
		return "NULL"
	default:
		return fmt.Sprintf("%T:%v", v, v)
	}
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	copied := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		copied[k] = v
	}
	return copied
}

func validationError(format string, args ...any) error {
	return &smithy.GenericAPIError{
		Code:    "ValidationException",
		Message: fmt.Sprintf(format, args...),
		Fault:   smithy.FaultClient,
	}
}
