package undo

import (
	"context"
)

// SlotKey is the key the undo slot is stored under.
const SlotKey = "undo_slot"

// JSONStore is the subset of the kv store used for persistence.
type JSONStore interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// KVPersister stores the slot as JSON.
type KVPersister struct {
	Store JSONStore
}

// Load implements Persister.
func (p KVPersister) Load(ctx context.Context) (*Entry, error) {
	var entry Entry
	ok, err := p.Store.GetJSON(ctx, SlotKey, &entry)
	if err != nil || !ok {
		return nil, err
	}
	return &entry, nil
}

// Save implements Persister.
func (p KVPersister) Save(ctx context.Context, entry *Entry) error {
	return p.Store.SetJSON(ctx, SlotKey, entry)
}

// Clear implements Persister.
func (p KVPersister) Clear(ctx context.Context) error {
	return p.Store.Delete(ctx, SlotKey)
}
