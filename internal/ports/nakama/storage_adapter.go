package nakama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"tilerummy/internal/domain"
	"tilerummy/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NakamaRoomRepository implements ports.RoomRepository on Nakama's storage
// engine. Rooms are system-owned objects in the rooms collection, keyed by
// the upper-cased room code; the storage object version is the
// optimistic-concurrency token handed back to the caller.
type NakamaRoomRepository struct {
	nk runtime.NakamaModule
}

// NewNakamaRoomRepository creates a new room repository adapter.
func NewNakamaRoomRepository(nk runtime.NakamaModule) *NakamaRoomRepository {
	return &NakamaRoomRepository{nk: nk}
}

// Load reads a room record. Returns (nil, "", nil) when no room exists under
// the code.
func (r *NakamaRoomRepository) Load(ctx context.Context, code string) (*domain.Room, string, error) {
	objects, err := r.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StorageCollectionRooms,
		Key:        storageKey(code),
	}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to read room %s: %w", code, err)
	}
	if len(objects) == 0 {
		return nil, "", nil
	}

	var room domain.Room
	if err := json.Unmarshal([]byte(objects[0].Value), &room); err != nil {
		return nil, "", fmt.Errorf("failed to unmarshal room %s: %w", code, err)
	}
	return &room, objects[0].Version, nil
}

// Save writes a room record. An empty version writes unconditionally; a
// non-empty version makes the write conditional on the stored object still
// carrying it.
func (r *NakamaRoomRepository) Save(ctx context.Context, room *domain.Room, version string) (string, error) {
	data, err := json.Marshal(room)
	if err != nil {
		return "", fmt.Errorf("failed to marshal room %s: %w", room.Code, err)
	}

	acks, err := r.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StorageCollectionRooms,
		Key:             storageKey(room.Code),
		Value:           string(data),
		Version:         version,
		PermissionRead:  0, // room records carry private hands; never readable directly
		PermissionWrite: 0,
	}})
	if err != nil {
		return "", fmt.Errorf("failed to write room %s: %w", room.Code, err)
	}
	if len(acks) == 0 {
		return "", fmt.Errorf("no ack writing room %s", room.Code)
	}
	return acks[0].Version, nil
}

// Delete removes a room record.
func (r *NakamaRoomRepository) Delete(ctx context.Context, code string) error {
	if err := r.nk.StorageDelete(ctx, []*runtime.StorageDelete{{
		Collection: StorageCollectionRooms,
		Key:        storageKey(code),
	}}); err != nil {
		return fmt.Errorf("failed to delete room %s: %w", code, err)
	}
	return nil
}

// storageKey normalizes room codes case-insensitively.
func storageKey(code string) string {
	return strings.ToUpper(code)
}

var _ ports.RoomRepository = (*NakamaRoomRepository)(nil)
