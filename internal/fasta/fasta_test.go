package fasta

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFileFullHeader(t *testing.T) {
	path := writeFile(t, "gyrA.faa",
		">GyrA|NZ_CP012345.1|contig00003|123456-126089\nMKTIAL\nSERIL\n")

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, "GyrA", r.Gene)
	assert.Equal(t, "NZ_CP012345.1", r.Accession)
	assert.Equal(t, "contig00003", r.Contig)
	assert.Equal(t, "123456-126089", r.Coords)
	assert.Equal(t, "MKTIALSERIL", r.Seq)
	assert.Equal(t, "GyrA|NZ_CP012345.1|contig00003|123456-126089", r.ID())
}

func TestReadFileBareGeneHeader(t *testing.T) {
	path := writeFile(t, "ref.faa", ">GyrA\nmktial\n")

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "GyrA", records[0].Gene)
	assert.Empty(t, records[0].Accession)
	assert.Equal(t, "MKTIAL", records[0].Seq, "sequence is uppercased")
}

func TestReadFileStripsTrailingStop(t *testing.T) {
	path := writeFile(t, "p.faa", ">ParC|ACC1\nMKTIAL*\n")

	r, err := First(path)
	require.NoError(t, err)
	assert.Equal(t, "MKTIAL", r.Seq)
}

func TestReadFileMultipleRecords(t *testing.T) {
	path := writeFile(t, "multi.faa",
		">GyrA|ACC1\nMKT\n>ParC|ACC1\nIAL\n")

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "GyrA", records[0].Gene)
	assert.Equal(t, "MKT", records[0].Seq)
	assert.Equal(t, "ParC", records[1].Gene)
	assert.Equal(t, "IAL", records[1].Seq)
}

func TestReadFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gyrA.faa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(">GyrA|ACC1\nMKTIAL\n"))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "MKTIAL", records[0].Seq)
}

func TestReadFileEmpty(t *testing.T) {
	path := writeFile(t, "empty.faa", "")

	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = First(path)
	assert.Error(t, err)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.faa"))
	assert.Error(t, err)
}
