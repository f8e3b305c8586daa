package broadcaster

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

const subscriberBuffer = 32

// MemoryHub: fan-out in-process. Pendengar yang lambat kehilangan event, bukan memblok pengirim.
type MemoryHub struct {
	mu   sync.RWMutex
	subs map[uuid.UUID]map[chan []byte]struct{}
}

func NewMemoryHub() *MemoryHub {
	return &MemoryHub{subs: make(map[uuid.UUID]map[chan []byte]struct{})}
}

func (h *MemoryHub) Broadcast(ctx context.Context, branchID uuid.UUID, event string, payload any) error {
	msg, err := encode(branchID, event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[branchID] {
		select {
		case ch <- msg:
		default:
		}
	}
	return nil
}

func (h *MemoryHub) Subscribe(ctx context.Context, branchID uuid.UUID) (<-chan []byte, func(), error) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.subs[branchID] == nil {
		h.subs[branchID] = make(map[chan []byte]struct{})
	}
	h.subs[branchID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[branchID], ch)
			if len(h.subs[branchID]) == 0 {
				delete(h.subs, branchID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Subscribers: jumlah pendengar aktif sebuah branch.
func (h *MemoryHub) Subscribers(branchID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[branchID])
}
