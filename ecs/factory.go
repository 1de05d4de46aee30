package ecs

// factory groups the package's constructors behind a single value so
// callers can inject one collaborator instead of importing every
// constructor individually.
type factory struct{}

// Factory is the global factory instance for creating ecs package types.
var Factory factory

// NewEntityManager creates a new EntityManager for the given config.
func (f factory) NewEntityManager(cfg Config) (*EntityManager, error) {
	return NewEntityManager(cfg)
}

// NewQuery creates a new Query.
func (f factory) NewQuery() Query {
	return NewQuery()
}

// NewCursor creates a new Cursor over mgr filtered by query.
func (f factory) NewCursor(query QueryNode, mgr *EntityManager) *Cursor {
	return NewCursor(query, mgr)
}
