package export

import (
	"bytes"
	"encoding/csv"
	"io"

	"github.com/rileyhilliard/vitals/internal/vitals"
)

// WriteCSV writes a header and one row per sample, separated by CRLF with
// no trailing line break. An empty window produces an empty body.
func WriteCSV(w io.Writer, samples []vitals.Sample) error {
	if len(samples) == 0 {
		return nil
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.UseCRLF = true

	if err := cw.Write(Columns); err != nil {
		return err
	}
	for _, s := range samples {
		if err := cw.Write(row(s)); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\r\n")))
	return err
}
