/*
Package processor provides code generation functionality for dynamoentity.

The processor reads the Go source of a package, resolves the key schema of
selected struct types from their dynamoentity tags and writes a companion
file implementing datastore.Entity for each of them.

Type Directive:
Types are selected with a directive line in their doc comment, or by name
with the -type flag:

	//dynamoentity:generate key=ProfileKey tags=dynamodbav|json
	type Profile struct {
	    ID          string `dynamodbav:"id" dynamoentity:"hash_key,prefix=USER#"`
	    SK          string `dynamodbav:"sk" dynamoentity:"sort_key,const=PROFILE"`
	    DisplayName string `dynamodbav:"displayName"`
	}

Generated Code:
For the type above the processor generates:

	type ProfileKey struct {
	    ID string `dynamodbav:"id"`
	    SK string `dynamodbav:"sk"`
	}

	func (Profile) HashKeyName() string { return "id" }
	func (e Profile) BuildKey() ProfileKey { ... }
	func NewProfile(hash string, displayName string) Profile { ... }
	func ProfileKeyFromHash(hash string) ProfileKey { ... }
	func (e *Profile) HandleSave(input *sdk.PutItemInput) *sdk.PutItemInput { ... }

A prefixed sort key adds a HandleQuery method narrowing queries with
begins_with. The output goes to <pkg>_entity_gen.go and -manifest writes the
resolved schemas as YAML for review.

Prefix and const options are accepted on string fields and on package local
types whose underlying type is string.
*/
package processor
