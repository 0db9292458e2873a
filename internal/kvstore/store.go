// Package kvstore defines the local key-value persistence substrate.
//
// Values are JSON; a missing or malformed record never fails a read; the
// caller's default survives instead. There are no transactions and no
// atomicity across keys: concurrent read-modify-write sequences can lose
// updates, which callers are expected to tolerate.
package kvstore

import (
	"reflect"
	"sync"

	"github.com/goccy/go-json"
)

// Store maps string keys to JSON-serializable values.
type Store interface {
	// Get decodes the value stored at key into dest and reports whether a
	// decodable value was present. On absence or corrupt content dest is left
	// untouched.
	Get(key string, dest any) bool

	// Set stores val at key, overwriting any previous value.
	Set(key string, val any) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}

// Memory is an in-process Store used by tests and ephemeral runs.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(key string, dest any) bool {
	m.mu.Lock()
	raw, ok := m.data[key]
	m.mu.Unlock()
	if !ok {
		return false
	}
	return Decode(raw, dest)
}

// Decode unmarshals raw into dest, touching dest only on full success. A
// truncated or malformed record must not leak partially decoded fields into
// the caller's default, so the decode goes through a staging value.
func Decode(raw []byte, dest any) bool {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false
	}
	tmp := reflect.New(rv.Type().Elem())
	if json.Unmarshal(raw, tmp.Interface()) != nil {
		return false
	}
	rv.Elem().Set(tmp.Elem())
	return true
}

func (m *Memory) Set(key string, val any) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// put stores raw bytes verbatim, bypassing the JSON codec. Test hook for
// simulating corrupt persisted content.
func (m *Memory) put(key string, raw []byte) {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), raw...)
	m.mu.Unlock()
}
