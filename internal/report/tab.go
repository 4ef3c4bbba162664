// Package report formats classification results.
package report

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/bactwatch/amrpipe/internal/classify"
)

// TabWriter writes classification results in tab-delimited format.
// The column set is fixed: an empty batch still produces a well-formed
// header-only table.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Genome",
			"Gene",
			"Mutation",
			"Status",
			"Phenotype",
			"Structure",
			"Confidence",
			"Source",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single result row.
func (tw *TabWriter) Write(r classify.Result) error {
	structure := r.StructureID
	if structure == "" {
		structure = "N/A"
	}

	confidence := "-"
	if r.Source != classify.SourceNone {
		confidence = strconv.FormatFloat(r.Confidence, 'f', 4, 64)
	}

	fields := []string{
		orDash(r.GenomeID),
		orDash(r.Gene),
		orDash(r.Token),
		orDash(r.Status),
		orDash(r.Phenotype),
		structure,
		confidence,
		orDash(r.Source),
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// WriteAll writes the header followed by every result.
func (tw *TabWriter) WriteAll(results []classify.Result) error {
	if err := tw.WriteHeader(); err != nil {
		return err
	}
	for _, r := range results {
		if err := tw.Write(r); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
