// Package export renders the sample window as CSV, PDF or XLSX and writes
// the artifact to disk. Exporters only read the samples they are given.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// BaseName is the file name (without extension) of every export.
const BaseName = "signos_vitales"

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Formats lists the supported formats in menu order.
var Formats = []Format{FormatCSV, FormatPDF, FormatXLSX}

// ParseFormat returns the format with the given name, ignoring case.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", vitalserrors.New(vitalserrors.ErrExport,
		fmt.Sprintf("Unknown export format '%s'", s),
		"Use csv, pdf or xlsx.")
}

// FileName returns the artifact name for the format.
func (f Format) FileName() string {
	return BaseName + "." + string(f)
}

// MIMEType returns the content type of the format.
func (f Format) MIMEType() string {
	switch f {
	case FormatCSV:
		return "text/csv;charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// Columns is the column order shared by the tabular formats.
var Columns = []string{"timestamp", "bpm", "o2InBlood", "sistolica", "diastolica", "temperature"}

// options holds renderer settings.
type options struct {
	chart bool
}

// Option configures rendering.
type Option func(*options)

// WithChart appends a chart page to PDF exports.
func WithChart(enabled bool) Option {
	return func(o *options) {
		o.chart = enabled
	}
}

// Render writes samples to w in the given format.
func Render(w io.Writer, f Format, samples []vitals.Sample, opts ...Option) error {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	switch f {
	case FormatCSV:
		return WriteCSV(w, samples)
	case FormatPDF:
		return WritePDF(w, samples, o.chart)
	case FormatXLSX:
		return WriteXLSX(w, samples)
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}

// Export renders samples and writes them to dir/signos_vitales.<ext>,
// replacing any previous export. It returns the written path.
func Export(f Format, samples []vitals.Sample, dir string, opts ...Option) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, f, samples, opts...); err != nil {
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			fmt.Sprintf("Couldn't render %s export", strings.ToUpper(string(f))),
			"This is unexpected - try again, or pick another format.")
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't create export directory "+dir,
			"Check export.dir in your .vitals.yaml.")
	}

	path := filepath.Join(dir, f.FileName())
	tmp, err := os.CreateTemp(dir, "."+f.FileName()+".*")
	if err != nil {
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't write to "+dir,
			"Check the directory is writable.")
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't write "+path,
			"Check free disk space.")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't write "+path,
			"Check free disk space.")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't write "+path,
			"Check the directory is writable.")
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", vitalserrors.WrapWithCode(err, vitalserrors.ErrExport,
			"Couldn't write "+path,
			"Check the directory is writable.")
	}
	return path, nil
}

// cell formats an optional value for text output. Missing values render
// as missing.
func cell(v *float64, missing string) string {
	if v == nil {
		return missing
	}
	return vitals.FormatNumber(*v)
}

// row returns the tabular fields for one sample.
func row(s vitals.Sample) []string {
	return []string{
		s.Timestamp,
		cell(s.BPM, ""),
		cell(s.O2InBlood, ""),
		cell(s.Presion.Sistolica, ""),
		cell(s.Presion.Diastolica, ""),
		cell(s.Temperature, ""),
	}
}
