// Package batch runs the alignment-and-classification pipeline over a
// directory of per-gene translated protein files.
//
// Each (genome, gene) file is an independent unit: a missing reference
// or a failed alignment skips that unit with a logged warning and the
// rest of the batch continues. Only a structural problem with the
// batch itself, like a nonexistent protein directory, is fatal.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/bactwatch/amrpipe/internal/align"
	"github.com/bactwatch/amrpipe/internal/classify"
	"github.com/bactwatch/amrpipe/internal/fasta"
	"github.com/bactwatch/amrpipe/internal/mutation"
)

// ErrNoReference marks a protein file whose gene has no wild-type
// reference. Per-unit skip condition, not a batch failure.
var ErrNoReference = errors.New("no wild-type reference for gene")

// Reference file extensions tried in order.
var refExtensions = []string{".faa", ".fasta", ".fa"}

// Protein input extensions accepted by Run.
var proteinExtensions = map[string]bool{".faa": true, ".fasta": true, ".fa": true}

// Runner drives the per-file pipeline.
type Runner struct {
	refDir     string
	classifier *classify.Classifier
	workers    int
	logger     *zap.Logger
}

// NewRunner creates a runner resolving references under refDir.
func NewRunner(refDir string, c *classify.Classifier) *Runner {
	return &Runner{
		refDir:     refDir,
		classifier: c,
		logger:     zap.NewNop(),
	}
}

// SetWorkers overrides the worker count (default runtime.NumCPU()).
func (r *Runner) SetWorkers(n int) {
	r.workers = n
}

// SetLogger sets the logger for per-unit warnings.
func (r *Runner) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Run processes every protein file under proteinDir and returns the
// flattened classification results in deterministic file order. An
// unreadable protein directory is the only fatal condition.
func (r *Runner) Run(proteinDir string) ([]classify.Result, error) {
	entries, err := os.ReadDir(proteinDir)
	if err != nil {
		return nil, fmt.Errorf("read protein directory: %w", err)
	}

	items := make(chan WorkItem, 2*len(entries)+1)
	seq := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := filepath.Ext(strings.TrimSuffix(name, ".gz"))
		if !proteinExtensions[ext] {
			continue
		}
		items <- WorkItem{Seq: seq, Path: filepath.Join(proteinDir, name)}
		seq++
	}
	close(items)

	var all []classify.Result
	processed, skipped := 0, 0

	results := r.parallelProcess(items, r.workers)
	err = OrderedCollect(results, func(wr WorkResult) error {
		if wr.Err != nil {
			skipped++
			if errors.Is(wr.Err, ErrNoReference) {
				r.logger.Warn("skipping protein file",
					zap.String("file", wr.Path),
					zap.Error(wr.Err))
			} else {
				r.logger.Error("failed to process protein file",
					zap.String("file", wr.Path),
					zap.Error(wr.Err))
			}
			return nil
		}
		processed++
		all = append(all, wr.Results...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("batch complete",
		zap.Int("processed", processed),
		zap.Int("skipped", skipped),
		zap.Int("mutations", len(all)))

	return all, nil
}

// processFile runs align -> call -> classify for one protein file.
func (r *Runner) processFile(path string) ([]classify.Result, error) {
	rec, err := fasta.First(path)
	if err != nil {
		return nil, err
	}
	if rec.Gene == "" {
		return nil, fmt.Errorf("%s: header carries no gene name", path)
	}
	if rec.Seq == "" {
		return nil, fmt.Errorf("%s: empty protein sequence", path)
	}

	refPath, ok := r.resolveReference(rec.Gene)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoReference, rec.Gene)
	}
	ref, err := fasta.First(refPath)
	if err != nil {
		return nil, fmt.Errorf("reference for %s: %w", rec.Gene, err)
	}

	pair, err := align.Align(ref.Seq, rec.Seq)
	if err != nil {
		return nil, fmt.Errorf("align %s: %w", rec.Gene, err)
	}

	subs, err := mutation.Call(pair)
	if err != nil {
		return nil, fmt.Errorf("call mutations in %s: %w", rec.Gene, err)
	}

	genomeID := rec.Accession
	if genomeID == "" {
		genomeID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return r.classifier.ClassifyAll(genomeID, rec.Gene, subs), nil
}

// resolveReference finds <Gene>_WT.<ext> under the reference
// directory by exact gene-name match.
func (r *Runner) resolveReference(gene string) (string, bool) {
	for _, ext := range refExtensions {
		path := filepath.Join(r.refDir, gene+"_WT"+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
