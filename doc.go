/*
Package dynamoentity maps Go structs to DynamoDB items and provides typed
data access objects for them.

The library follows a declaration → generation → runtime workflow:
  - Declaration: mark key fields with dynamoentity struct tags
  - Generation: entitygen writes key types and key methods for marked types
  - Runtime: ddb.Dao executes typed Save, Load, Delete and Query calls

Key Features:
  - Hash and sort keys declared with tags, or picked by the id/sk naming policy
  - Key prefixes and constant sort keys applied on save, key building and query
  - Renamed key attributes through the name option
  - Request hooks for conditional writes and custom queries
  - Paginated queries on tables and secondary indexes, plus streaming
  - Semantic error kinds for definition and storage failures
  - In-memory client and DataStore doubles for testing

Tag Syntax:

	type Profile struct {
	    ID string `dynamodbav:"id" dynamoentity:"hash_key,prefix=USER#"`
	    SK string `dynamodbav:"sk" dynamoentity:"sort_key,const=PROFILE"`
	    Name string `dynamodbav:"name"`
	}

Basic Usage:

	session, _ := dynamoentity.NewSessionFromEnv(ctx, "PROFILES_TABLE")

	profiles, _ := dynamoentity.OpenDao[Profile, ProfileKey](session, "")
	profile := NewProfile("123", "Ann")
	err := profiles.Save(ctx, &profile)

	loaded, err := profiles.Load(ctx, ProfileKeyFromHash("123"))

Several Daos opened on one session share its client, and the session keeps
them in a MultiTypeStorage keyed by entity type and table.
*/
package dynamoentity
