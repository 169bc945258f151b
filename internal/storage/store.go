// Package storage provides the durable key-value store the engine persists
// its state envelope into.
package storage

// Store is a minimal durable key-value store. Implementations must make a
// completed Set visible to the next Get on the same instance.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Remove(key string) error
}
