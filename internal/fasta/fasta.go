// Package fasta reads protein FASTA files.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record is a single FASTA entry. Headers written by the extraction
// stage look like
//
//	>GyrA|NZ_CP012345.1|contig00003|123456-126089
//
// with gene name, genome accession, source contig and coordinate
// range. Missing header fields are tolerated; only the gene name is
// required downstream.
type Record struct {
	Gene      string
	Accession string
	Contig    string
	Coords    string
	Seq       string
}

// ID returns the full record identifier in header form.
func (r Record) ID() string {
	return strings.Join([]string{r.Gene, r.Accession, r.Contig, r.Coords}, "|")
}

// ReadFile parses all records from path. Files ending in .gz are
// decompressed transparently. An empty file yields an empty slice.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return parse(reader)
}

// First returns the first record in path. Per-gene protein files and
// wild-type references hold one record each, so this is the common
// access path.
func First(path string) (Record, error) {
	records, err := ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, fmt.Errorf("no FASTA records in %s", path)
	}
	return records[0], nil
}

func parse(reader io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(reader)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var records []Record
	var current Record
	var seq strings.Builder
	inRecord := false

	flush := func() {
		if inRecord {
			current.Seq = strings.ToUpper(strings.TrimSuffix(seq.String(), "*"))
			records = append(records, current)
		}
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = parseHeader(line[1:])
			seq.Reset()
			inRecord = true
		} else {
			seq.WriteString(line)
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return records, nil
}

// parseHeader splits a pipe-delimited header into its fields. Headers
// with fewer fields fill from the left, so a bare ">GyrA" still
// carries the gene name.
func parseHeader(header string) Record {
	fields := strings.Split(strings.TrimSpace(header), "|")
	var r Record
	if len(fields) > 0 {
		r.Gene = strings.TrimSpace(fields[0])
	}
	if len(fields) > 1 {
		r.Accession = strings.TrimSpace(fields[1])
	}
	if len(fields) > 2 {
		r.Contig = strings.TrimSpace(fields[2])
	}
	if len(fields) > 3 {
		r.Coords = strings.TrimSpace(fields[3])
	}
	return r
}
