// Package correlation publishes captured command output under caller-chosen
// correlation keys so unrelated code in the same process can retrieve it.
//
// Stores are injected into the engine rather than held in process-wide
// state. Concurrent publishes to one key resolve as last write wins.
package correlation

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// MarkerPrefix identifies bindings whose names act as correlation keys.
const MarkerPrefix = "unique_sequence_no_"

// OutputStore receives published output and serves later lookups.
type OutputStore interface {
	Publish(key string, value string)
	Lookup(key string) (string, bool)
}

// MemoryOutputStore keeps published output in memory.
type MemoryOutputStore struct {
	mutex   sync.RWMutex
	entries map[string]string
}

// NewMemoryOutputStore constructs an empty in-memory store.
func NewMemoryOutputStore() *MemoryOutputStore {
	return &MemoryOutputStore{entries: make(map[string]string)}
}

// Publish stores value under key, replacing any previous value.
func (store *MemoryOutputStore) Publish(key string, value string) {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.entries[key] = value
}

// Lookup returns the value most recently published under key.
func (store *MemoryOutputStore) Lookup(key string) (string, bool) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	value, exists := store.entries[key]
	return value, exists
}

// IsMarker reports whether a binding name carries the correlation prefix.
func IsMarker(bindingName string) bool {
	return strings.HasPrefix(bindingName, MarkerPrefix)
}

// Truncate keeps at most limit characters of value. A non-positive limit disables truncation.
func Truncate(value string, limit int) string {
	if limit <= 0 || len(value) <= limit {
		return value
	}
	if utf8.RuneCountInString(value) <= limit {
		return value
	}
	characterCount := 0
	for byteOffset := range value {
		if characterCount == limit {
			return value[:byteOffset]
		}
		characterCount++
	}
	return value
}
