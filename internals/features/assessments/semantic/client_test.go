package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainingku_backend/internals/configs"
)

func TestClient_ReturnsVerdict(t *testing.T) {
	var got compareRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"is_correct":true,"reason":"setara"}`))
	}))
	defer srv.Close()

	c := &Client{URL: srv.URL, Token: "secret", Timeout: time.Second}
	v, err := c.CompareAnswers(context.Background(), "air mendidih 100C", "air mendidih pada 100 derajat")

	require.NoError(t, err)
	assert.True(t, v.IsCorrect)
	assert.Equal(t, "setara", v.Reason)
	assert.Equal(t, "air mendidih 100C", got.Submitted)
	assert.Equal(t, "air mendidih pada 100 derajat", got.Ideal)
	assert.Equal(t, "Bearer secret", auth)
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "status 500",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: ErrBadStatus,
		},
		{
			name: "bukan json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			wantErr: ErrBadResponse,
		},
		{
			name: "is_correct hilang",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"reason":"?"}`))
			},
			wantErr: ErrBadResponse,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := (&Client{URL: srv.URL, Timeout: time.Second}).CompareAnswers(context.Background(), "a", "b")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		_, _ = w.Write([]byte(`{"is_correct":true}`))
	}))
	defer srv.Close()

	_, err := (&Client{URL: srv.URL, Timeout: 50 * time.Millisecond}).CompareAnswers(context.Background(), "a", "b")
	assert.Error(t, err)
}

func TestClient_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Client{URL: "http://127.0.0.1:1"}).CompareAnswers(ctx, "a", "b")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewComparer_Unconfigured(t *testing.T) {
	assert.Nil(t, NewComparer(configs.AppConfig{}))
	assert.NotNil(t, NewComparer(configs.AppConfig{SemanticCompareURL: "http://x"}))
}
