package broadcaster

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(rdb *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{rdb: rdb}
}

func (r *RedisBroadcaster) Broadcast(ctx context.Context, branchID uuid.UUID, event string, payload any) error {
	msg, err := encode(branchID, event, payload)
	if err != nil {
		return err
	}
	return r.rdb.Publish(ctx, ChannelName(branchID), msg).Err()
}

func (r *RedisBroadcaster) Subscribe(ctx context.Context, branchID uuid.UUID) (<-chan []byte, func(), error) {
	ps := r.rdb.Subscribe(ctx, ChannelName(branchID))
	// tunggu konfirmasi subscribe supaya error koneksi langsung ketahuan
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, err
	}

	out := make(chan []byte, subscriberBuffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		in := ps.Channel()
		for {
			select {
			case <-done:
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				select {
				case out <- []byte(m.Payload):
				default:
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}
	return out, cancel, nil
}
