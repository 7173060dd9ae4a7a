package ports

// ObjectStore keeps native objects alive between calls under string handles.
type ObjectStore interface {
	// Store saves obj under name and returns the handle. An empty name gets a
	// generated one. An existing object with the same name is released.
	Store(name string, obj any) (string, error)

	// Retrieve returns the object stored under handle.
	Retrieve(handle string) (any, error)

	// ReleaseAll drops every object. Calling it again is a no-op.
	ReleaseAll()
}
