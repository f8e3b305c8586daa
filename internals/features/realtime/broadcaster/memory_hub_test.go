package broadcaster

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(time.Second):
		t.Fatal("event tidak diterima")
		return nil
	}
}

func TestMemoryHub_DeliversToBranchSubscribers(t *testing.T) {
	hub := NewMemoryHub()
	ctx := context.Background()
	branchA, branchB := uuid.New(), uuid.New()

	chA, cancelA, err := hub.Subscribe(ctx, branchA)
	require.NoError(t, err)
	defer cancelA()
	chB, cancelB, err := hub.Subscribe(ctx, branchB)
	require.NoError(t, err)
	defer cancelB()

	require.NoError(t, hub.Broadcast(ctx, branchA, EventSubtestSubmitted, map[string]any{"score": 80}))

	var ev struct {
		Event    string         `json:"event"`
		BranchID string         `json:"branch_id"`
		Data     map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(receive(t, chA), &ev))
	assert.Equal(t, EventSubtestSubmitted, ev.Event)
	assert.Equal(t, branchA.String(), ev.BranchID)
	assert.EqualValues(t, 80, ev.Data["score"])

	select {
	case <-chB:
		t.Fatal("branch lain tidak boleh menerima event")
	default:
	}
}

func TestMemoryHub_CancelRemovesSubscriber(t *testing.T) {
	hub := NewMemoryHub()
	branch := uuid.New()

	ch, cancel, err := hub.Subscribe(context.Background(), branch)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers(branch))

	cancel()
	cancel()
	assert.Equal(t, 0, hub.Subscribers(branch))

	_, open := <-ch
	assert.False(t, open)
	assert.NoError(t, hub.Broadcast(context.Background(), branch, EventSubtestReset, nil))
}

func TestMemoryHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewMemoryHub()
	branch := uuid.New()
	_, cancel, err := hub.Subscribe(context.Background(), branch)
	require.NoError(t, err)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBuffer*3; i++ {
			_ = hub.Broadcast(context.Background(), branch, EventAssessmentPublished, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast terblokir oleh pendengar lambat")
	}
}

func TestNew_WithoutRedisFallsBackToHub(t *testing.T) {
	_, ok := New(nil).(*MemoryHub)
	assert.True(t, ok)
	assert.Equal(t, "lms:events:"+uuid.Nil.String(), ChannelName(uuid.Nil))
}

func TestNotify_SwallowsErrors(t *testing.T) {
	rec := &Recorder{Err: assert.AnError}
	assert.NotPanics(t, func() {
		Notify(context.Background(), rec, uuid.New(), EventSubtestSubmitted, nil)
		Notify(context.Background(), nil, uuid.New(), EventSubtestSubmitted, nil)
	})
	assert.Empty(t, rec.Events)
}
