package ports

import (
	"context"

	"github.com/aretw0/weft/pkg/session"
)

// SessionStore persists session snapshots on the host side. The core never
// persists anything itself; stores exist so hosts can park a session chain
// between processes and rehydrate it with session.FromSnapshot.
type SessionStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, id string, snap *session.Snapshot) error

	// Load retrieves the snapshot for a given session ID.
	// Returns session.ErrSessionNotFound if the ID does not exist.
	Load(ctx context.Context, id string) (*session.Snapshot, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, id string) error
}
