package broadcaster

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type Recorded struct {
	BranchID uuid.UUID
	Event    string
	Payload  any
}

// Recorder menyimpan setiap broadcast di memori. Dipakai di test.
type Recorder struct {
	mu     sync.Mutex
	Events []Recorded
	Err    error
}

func (r *Recorder) Broadcast(ctx context.Context, branchID uuid.UUID, event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Events = append(r.Events, Recorded{BranchID: branchID, Event: event, Payload: payload})
	return nil
}

func (r *Recorder) Subscribe(ctx context.Context, branchID uuid.UUID) (<-chan []byte, func(), error) {
	ch := make(chan []byte)
	return ch, func() {}, nil
}

func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}
