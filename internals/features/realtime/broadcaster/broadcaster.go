// file: internals/features/realtime/broadcaster/broadcaster.go
package broadcaster

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	EventSubtestSubmitted    = "subtest:submitted"
	EventSubtestReset        = "subtest:reset"
	EventAssessmentPublished = "assessment:published"
)

// Event adalah amplop yang dikirim ke klien SSE.
type Event struct {
	Event    string    `json:"event"`
	BranchID uuid.UUID `json:"branch_id"`
	Data     any       `json:"data,omitempty"`
	At       time.Time `json:"at"`
}

// Broadcaster mengirim event ke semua pendengar satu branch.
// Kegagalan broadcast tidak pernah menggagalkan operasi yang memicunya.
type Broadcaster interface {
	Broadcast(ctx context.Context, branchID uuid.UUID, event string, payload any) error
	// Subscribe mengembalikan aliran event (sudah ter-encode JSON) dan fungsi untuk berhenti.
	Subscribe(ctx context.Context, branchID uuid.UUID) (<-chan []byte, func(), error)
}

// New memilih Redis kalau client tersedia, selain itu hub in-process.
func New(rdb *redis.Client) Broadcaster {
	if rdb == nil {
		log.Println("[REALTIME] memakai hub lokal")
		return NewMemoryHub()
	}
	log.Println("[REALTIME] memakai Redis pub/sub")
	return NewRedisBroadcaster(rdb)
}

func ChannelName(branchID uuid.UUID) string {
	return fmt.Sprintf("lms:events:%s", branchID)
}

func encode(branchID uuid.UUID, event string, payload any) ([]byte, error) {
	return sonic.Marshal(Event{
		Event:    event,
		BranchID: branchID,
		Data:     payload,
		At:       time.Now().UTC(),
	})
}

// Notify: broadcast best-effort, error cukup dicatat.
func Notify(ctx context.Context, b Broadcaster, branchID uuid.UUID, event string, payload any) {
	if b == nil {
		return
	}
	if err := b.Broadcast(ctx, branchID, event, payload); err != nil {
		log.Printf("[REALTIME] broadcast %s branch=%s gagal: %v", event, branchID, err)
	}
}
