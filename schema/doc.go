/*
Package schema resolves the key layout of DynamoDB entity types.

Key roles are declared with the dynamoentity struct tag:

	type Profile struct {
	    ProfileID   string `dynamodbav:"profileId" dynamoentity:"hash_key,prefix=USER#"`
	    SK          string `dynamodbav:"sk" dynamoentity:"sort_key,const=PROFILE"`
	    DisplayName string `dynamodbav:"displayName"`
	}

Supported options are name (key attribute name), prefix (prepended to the
supplied key value) and const (fixed sort key value). Entities without markers
fall back to a NamingPolicy, by default a field named "id" for the hash key and
"sk" for the sort key.

The same resolver serves the entitygen code generator, which reads fields from
Go source, and the registry, which reads them through reflection.
*/
package schema
