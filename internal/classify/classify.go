// Package classify decides the clinical significance of called
// substitutions.
//
// The decision policy is strictly linear: an exact knowledge-base hit
// always wins, the trained model is only consulted on a miss, and
// anything the model cannot score stays a variant of uncertain
// significance. Curated clinical knowledge is never overridden by a
// statistical guess.
package classify

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bactwatch/amrpipe/internal/kb"
	"github.com/bactwatch/amrpipe/internal/mutation"
	"github.com/bactwatch/amrpipe/internal/predict"
)

// Prediction sources recorded in results.
const (
	SourceKnowledgeBase = "KnowledgeBase"
	SourceModel         = "Model"
	SourceNone          = "None"
)

// Terminal statuses outside the predicted-risk family.
const (
	StatusResistant   = "Resistant"
	StatusVUS         = "VUS"
	StatusParseFailed = "Unknown (parse failed)"
)

// Result is one classified mutation, the unit row of the report.
type Result struct {
	GenomeID    string
	Gene        string
	Token       string
	Status      string
	Phenotype   string
	StructureID string
	Confidence  float64 // meaningful only when Source != SourceNone
	Source      string
}

// Classifier applies the knowledge-base-first decision policy.
type Classifier struct {
	kb         *kb.KnowledgeBase
	predictor  *predict.Predictor
	antibiotic string
	useModel   bool
	logger     *zap.Logger
}

// New creates a classifier over a loaded knowledge base.
func New(knowledgeBase *kb.KnowledgeBase) *Classifier {
	return &Classifier{
		kb:     knowledgeBase,
		logger: zap.NewNop(),
	}
}

// EnableModelFallback turns on model-based prediction for
// knowledge-base misses. The predictor is antibiotic-specific.
func (c *Classifier) EnableModelFallback(p *predict.Predictor, antibiotic string) {
	c.predictor = p
	c.antibiotic = antibiotic
	c.useModel = true
}

// SetLogger sets the logger for per-mutation diagnostics.
func (c *Classifier) SetLogger(l *zap.Logger) {
	c.logger = l
}

// Classify resolves one substitution to exactly one terminal state.
func (c *Classifier) Classify(genomeID, gene string, sub mutation.Substitution) Result {
	token := sub.Token()

	if entry, ok := c.kb.Lookup(gene, token); ok {
		return Result{
			GenomeID:    genomeID,
			Gene:        gene,
			Token:       token,
			Status:      StatusResistant,
			Phenotype:   entry.Phenotype,
			StructureID: entry.Structure,
			Confidence:  1.0,
			Source:      SourceKnowledgeBase,
		}
	}

	if !c.useModel {
		return c.vus(genomeID, gene, token)
	}

	pred := c.predictor.Predict(token, c.antibiotic)
	if !pred.OK {
		c.logger.Debug("model fallback unavailable",
			zap.String("gene", gene),
			zap.String("mutation", token),
			zap.String("reason", pred.Reason))
		if pred.ParseFailed {
			return Result{
				GenomeID:    genomeID,
				Gene:        gene,
				Token:       token,
				Status:      StatusParseFailed,
				Phenotype:   pred.Reason,
				StructureID: "N/A",
				Source:      SourceNone,
			}
		}
		return c.vus(genomeID, gene, token)
	}

	return Result{
		GenomeID:    genomeID,
		Gene:        gene,
		Token:       token,
		Status:      fmt.Sprintf("Predicted %s Risk", pred.RiskLevel),
		Phenotype:   fmt.Sprintf("Predicted resistance risk for %s", c.antibiotic),
		StructureID: "N/A",
		Confidence:  pred.Probability,
		Source:      SourceModel,
	}
}

// ClassifyAll classifies every substitution from one gene's alignment.
func (c *Classifier) ClassifyAll(genomeID, gene string, subs []mutation.Substitution) []Result {
	results := make([]Result, 0, len(subs))
	for _, sub := range subs {
		results = append(results, c.Classify(genomeID, gene, sub))
	}
	return results
}

func (c *Classifier) vus(genomeID, gene, token string) Result {
	return Result{
		GenomeID:    genomeID,
		Gene:        gene,
		Token:       token,
		Status:      StatusVUS,
		Phenotype:   "Variant of uncertain significance",
		StructureID: "N/A",
		Source:      SourceNone,
	}
}
