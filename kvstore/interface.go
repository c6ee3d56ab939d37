package kvstore

// KVStore is the persistent key-value collaborator the signer keeps its login
// marker and its bunker client key in.
type KVStore interface {
	// Get retrieves a value for a given key. Returns nil if not found.
	Get(key []byte) ([]byte, error)

	// Set stores a value for a given key, replacing any previous value
	Set(key []byte, value []byte) error

	// Delete removes a key and its value. Deleting a missing key is not an error.
	Delete(key []byte) error

	// Close releases any resources held by the store
	Close() error
}
