package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAssessmentModel_Window(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name      string
		pub, exp  *time.Time
		published bool
		open      bool
	}{
		{name: "not scheduled", published: false, open: false},
		{name: "published no expiry", pub: &past, published: true, open: true},
		{name: "published exactly now", pub: &now, published: true, open: true},
		{name: "future publication", pub: &future, published: false, open: false},
		{name: "expired", pub: &past, exp: &now, published: true, open: false},
		{name: "still running", pub: &past, exp: &future, published: true, open: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := AssessmentModel{AssessmentPublicationDate: tt.pub, AssessmentExpirationDate: tt.exp}
			assert.Equal(t, tt.published, m.IsPublished(now))
			assert.Equal(t, tt.open, m.IsOpen(now))
		})
	}
}
