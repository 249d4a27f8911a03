/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

// IndexConfig describes the key attributes of a secondary index
type IndexConfig struct {
	// IndexName is the actual index name in DynamoDB (e.g., "GSI1")
	IndexName string
	// HashKeyName is the partition key attribute of the index (e.g., "PK1")
	HashKeyName string
	// SortKeyName is the sort key attribute of the index (e.g., "SK1"), required for sort conditions
	SortKeyName string
}

// DefaultIndexConfigs holds index layouts shared by the tables of an application
var DefaultIndexConfigs = map[string]IndexConfig{
	"GSI1": {
		IndexName:   "GSI1",
		HashKeyName: "PK1",
		SortKeyName: "SK1",
	},
}

// GetIndexConfig returns the configuration for a given index name
func GetIndexConfig(indexName string) (IndexConfig, bool) {
	config, ok := DefaultIndexConfigs[indexName]
	return config, ok
}
