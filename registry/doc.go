/*
Package registry caches resolved key schemas for entity types.

Entities that don't carry generated key code are mapped through reflection.
Their schema is resolved once, at registration time, and looked up by the data
access object afterwards:

	func init() {
	    registry.MustRegister[Invoice]()
	}

	// alternate naming conventions
	registry.MustRegister[LegacyOrder](registry.WithNamingPolicy(schema.NamingPolicy{
	    HashKey: "pk",
	    SortKey: "rk",
	}))

Schemas are cached per type and naming policy, so the same type can be
mapped under several policies. Calls without a policy option use
schema.DefaultNaming.

Definition errors surface loudly: MustRegister panics and Register returns
the error, so a misdeclared type is never silently used.

The registry is thread-safe and should be populated during initialization,
typically in init() functions.
*/
package registry
