package ports

import (
	"context"

	"tilerummy/internal/domain"
)

// RoomRepository persists rooms keyed by their 4-letter code. Load returns
// (nil, "", nil) when no room exists under the code. The version string is
// the storage layer's optimistic-concurrency token: Save must reject a write
// whose version no longer matches the stored record and return
// ErrVersionConflict from the implementing package.
type RoomRepository interface {
	Load(ctx context.Context, code string) (*domain.Room, string, error)
	Save(ctx context.Context, room *domain.Room, version string) (string, error)
	Delete(ctx context.Context, code string) error
}
