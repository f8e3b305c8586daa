// file: internals/features/certificates/user_certificates/pdf/certificate_pdf.go
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/raykov/gofpdf"
)

type BlockLine struct {
	Label   string
	Weight  float64
	Average float64
}

type CertificateData struct {
	Serial     string
	UserName   string
	BranchID   string
	NotaGlobal float64
	Blocks     []BlockLine
	IssuedAt   time.Time
}

var bulan = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

func tanggal(t time.Time) string {
	return fmt.Sprintf("%d %s %d", t.Day(), bulan[t.Month()-1], t.Year())
}

// Render menghasilkan PDF A4 landscape satu halaman.
func Render(d CertificateData) ([]byte, error) {
	p := gofpdf.New("L", "mm", "A4", "")
	p.SetTitle("Sertifikat "+d.Serial, true)
	p.SetAuthor("Trainingku", true)
	tr := p.UnicodeTranslatorFromDescriptor("")

	p.AddPage()
	w, h := p.GetPageSize()

	// bingkai
	p.SetDrawColor(30, 64, 120)
	p.SetLineWidth(1.5)
	p.Rect(10, 10, w-20, h-20, "D")
	p.SetLineWidth(0.4)
	p.Rect(14, 14, w-28, h-28, "D")

	p.SetTextColor(30, 64, 120)
	p.SetFont("Helvetica", "B", 30)
	p.SetY(32)
	p.CellFormat(0, 14, tr("SERTIFIKAT KELULUSAN"), "", 1, "C", false, 0, "")

	p.SetTextColor(60, 60, 60)
	p.SetFont("Helvetica", "", 14)
	p.CellFormat(0, 10, tr("Diberikan kepada"), "", 1, "C", false, 0, "")

	p.SetTextColor(0, 0, 0)
	p.SetFont("Helvetica", "B", 26)
	p.CellFormat(0, 16, tr(d.UserName), "", 1, "C", false, 0, "")

	p.SetFont("Helvetica", "", 13)
	p.CellFormat(0, 9, tr(fmt.Sprintf("telah menyelesaikan seluruh penilaian dengan nilai akhir %.2f", d.NotaGlobal)), "", 1, "C", false, 0, "")
	p.Ln(6)

	if len(d.Blocks) > 0 {
		colW := []float64{90, 35, 35}
		left := (w - (colW[0] + colW[1] + colW[2])) / 2

		p.SetFont("Helvetica", "B", 11)
		p.SetFillColor(230, 236, 245)
		p.SetX(left)
		for i, head := range []string{"Block", "Bobot", "Rata-rata"} {
			p.CellFormat(colW[i], 8, tr(head), "1", 0, "C", true, 0, "")
		}
		p.Ln(-1)

		p.SetFont("Helvetica", "", 11)
		for _, b := range d.Blocks {
			p.SetX(left)
			p.CellFormat(colW[0], 7, tr(b.Label), "1", 0, "L", false, 0, "")
			p.CellFormat(colW[1], 7, fmt.Sprintf("%.2f", b.Weight), "1", 0, "C", false, 0, "")
			p.CellFormat(colW[2], 7, fmt.Sprintf("%.2f", b.Average), "1", 0, "C", false, 0, "")
			p.Ln(-1)
		}
	}

	p.SetY(h - 40)
	p.SetFont("Helvetica", "", 11)
	p.SetTextColor(60, 60, 60)
	p.CellFormat(0, 7, tr("Diterbitkan "+tanggal(d.IssuedAt)), "", 1, "C", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.CellFormat(0, 6, tr("No. "+d.Serial+"  |  Branch "+d.BranchID), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
