package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ProducesPDF(t *testing.T) {
	out, err := Render(CertificateData{
		Serial:     "TK-20250701-ABCDEF12",
		UserName:   "Siti Nurhaliza",
		BranchID:   "7d3c",
		NotaGlobal: 84.5,
		Blocks: []BlockLine{
			{Label: "Teori", Weight: 60, Average: 90},
			{Label: "Praktik", Weight: 40, Average: 76.25},
		},
		IssuedAt: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 500)
}

func TestTanggal(t *testing.T) {
	assert.Equal(t, "17 Agustus 2025", tanggal(time.Date(2025, 8, 17, 0, 0, 0, 0, time.UTC)))
}
