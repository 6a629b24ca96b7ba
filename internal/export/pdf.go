package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// PDF layout in millimetres on A4 portrait.
const (
	pdfTitle       = "Historial de Signos Vitales"
	pdfTitleX      = 11.0
	pdfTitleY      = 20.0
	pdfLeft        = 10.0
	pdfFirstBlockY = 45.0
	pdfTopY        = 20.0
	pdfPageHeight  = 297.0
	pdfBottom      = 15.0
	pdfFontSize    = 16.0
	pdfMissing     = "--"
)

// pdfBlockLines are the vertical advances after each line of a block.
var pdfBlockLines = []float64{14, 8, 8, 8, 20}

// blockLines returns the five text lines describing one sample.
func blockLines(i int, s vitals.Sample) []string {
	return []string{
		fmt.Sprintf("%d. Timestamp: %s", i+1, s.Timestamp),
		fmt.Sprintf("   - BPM: %s", cell(s.BPM, pdfMissing)),
		fmt.Sprintf("   - O2 en sangre: %s%%", cell(s.O2InBlood, pdfMissing)),
		fmt.Sprintf("   - Presión: %s/%s mmHg", cell(s.Presion.Sistolica, pdfMissing), cell(s.Presion.Diastolica, pdfMissing)),
		fmt.Sprintf("   - Temperatura: %s°C", cell(s.Temperature, pdfMissing)),
	}
}

// blockHeight is the distance from a block's first baseline to its last.
func blockHeight() float64 {
	h := 0.0
	for _, adv := range pdfBlockLines[:len(pdfBlockLines)-1] {
		h += adv
	}
	return h
}

// WritePDF renders the title and one text block per sample, starting a new
// page when a block would run past the bottom margin. With chart set and at
// least two samples, a final page holds a line chart of every metric.
func WritePDF(w io.Writer, samples []vitals.Sample, chart bool) error {
	pdf, err := buildPDF(samples, chart)
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func buildPDF(samples []vitals.Sample, chart bool) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(pdfTitle, true)
	pdf.SetCreator("vitals", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.Text(pdfTitleX, pdfTitleY, tr(pdfTitle))

	y := pdfFirstBlockY
	for i, s := range samples {
		if y+blockHeight() > pdfPageHeight-pdfBottom {
			pdf.AddPage()
			y = pdfTopY
		}
		for j, line := range blockLines(i, s) {
			pdf.Text(pdfLeft, y, tr(line))
			y += pdfBlockLines[j]
		}
	}

	if chart && len(samples) >= 2 {
		if err := addChartPage(pdf, samples); err != nil {
			return nil, err
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("build pdf: %w", err)
	}
	return pdf, nil
}

// addChartPage renders the chart PNG and places it on its own page.
func addChartPage(pdf *fpdf.Fpdf, samples []vitals.Sample) error {
	var img bytes.Buffer
	ok, err := RenderChart(&img, samples, 1600, 900)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if !ok {
		return nil
	}

	pdf.AddPage()
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("history", opts, &img)
	pdf.ImageOptions("history", pdfLeft, pdfTopY, 190, 0, false, opts, 0, "")
	return nil
}
