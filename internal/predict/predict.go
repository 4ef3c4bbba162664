// Package predict estimates the resistance risk of novel mutations
// with per-antibiotic trained classifiers.
package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bactwatch/amrpipe/internal/encode"
)

// Risk labels produced by probability stratification. The thresholds
// are fixed for clinician-readable output: >0.8 High, >0.5 Moderate,
// otherwise Low.
const (
	RiskHigh     = "High"
	RiskModerate = "Moderate"
	RiskLow      = "Low"
)

// Classifier is the narrow capability a trained model must provide:
// a resistance probability in [0,1] for a 5-dimensional feature
// vector. Any backend satisfying it is substitutable.
type Classifier interface {
	ProbResistant(features [5]float64) float64
}

// LogisticModel is a serialized logistic-regression classifier.
type LogisticModel struct {
	Antibiotic string     `json:"antibiotic"`
	TrainedOn  int        `json:"trained_on"`
	Weights    [5]float64 `json:"weights"`
	Bias       float64    `json:"bias"`
}

// ProbResistant applies the logistic function to the weighted features.
func (m *LogisticModel) ProbResistant(features [5]float64) float64 {
	z := m.Bias
	for i, w := range m.Weights {
		z += w * features[i]
	}
	return 1 / (1 + math.Exp(-z))
}

// Prediction is the outcome of scoring one mutation token. Failures
// (unparseable token, no trained model) are carried in the value, not
// raised: they are expected conditions in batch runs.
type Prediction struct {
	OK          bool
	Reason      string
	ParseFailed bool // the token itself was malformed
	Token       string
	WildType    byte
	Position    int
	Mutant      byte
	Probability float64
	RiskLevel   string
}

// Predictor scores mutation tokens against per-antibiotic models.
// Models load lazily on first use and stay cached for the lifetime of
// the predictor; the cache is safe for concurrent workers.
type Predictor struct {
	modelDir string

	mu     sync.Mutex
	models map[string]Classifier
}

// New creates a predictor resolving model artifacts under modelDir.
func New(modelDir string) *Predictor {
	return &Predictor{
		modelDir: modelDir,
		models:   make(map[string]Classifier),
	}
}

// modelFileName derives the artifact name for an antibiotic display
// name: lowercased, spaces to underscores.
func modelFileName(antibiotic string) string {
	return strings.ReplaceAll(strings.ToLower(antibiotic), " ", "_") + "_model.json"
}

// load resolves and memoizes the model for an antibiotic. The cache
// is keyed by the original display name. A missing artifact is a
// normal condition, reported through ok=false.
func (p *Predictor) load(antibiotic string) (Classifier, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if m, cached := p.models[antibiotic]; cached {
		return m, true, nil
	}

	path := filepath.Join(p.modelDir, modelFileName(antibiotic))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read model %s: %w", path, err)
	}

	var m LogisticModel
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("parse model %s: %w", path, err)
	}

	p.models[antibiotic] = &m
	return &m, true, nil
}

// Available lists antibiotics with a model artifact on disk, derived
// from the *_model.json naming convention.
func (p *Predictor) Available() []string {
	entries, err := os.ReadDir(p.modelDir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, "_model.json") {
			continue
		}
		base := strings.TrimSuffix(name, "_model.json")
		names = append(names, strings.ReplaceAll(base, "_", " "))
	}
	sort.Strings(names)
	return names
}

// Predict scores a single mutation token against the antibiotic's
// model. Never panics; all failure modes come back as OK=false.
func (p *Predictor) Predict(token, antibiotic string) Prediction {
	parsed, err := encode.ParseToken(token)
	if err != nil {
		return Prediction{Token: token, Reason: err.Error(), ParseFailed: true}
	}
	features, err := encode.Features(token)
	if err != nil {
		return Prediction{Token: token, Reason: err.Error(), ParseFailed: true}
	}

	model, found, err := p.load(antibiotic)
	if err != nil {
		return Prediction{Token: token, Reason: err.Error()}
	}
	if !found {
		reason := fmt.Sprintf("no trained model for %q", antibiotic)
		if available := p.Available(); len(available) > 0 {
			reason += "; models available for: " + strings.Join(available, ", ")
		}
		return Prediction{Token: token, Reason: reason}
	}

	prob := model.ProbResistant(features.Values())
	// Fixed precision keeps report output deterministic.
	prob = math.Round(prob*10000) / 10000

	return Prediction{
		OK:          true,
		Token:       token,
		WildType:    parsed.WildType,
		Position:    parsed.Position,
		Mutant:      parsed.Mutant,
		Probability: prob,
		RiskLevel:   riskLevel(prob),
	}
}

// PredictBatch scores tokens independently; one token's failure never
// aborts the rest.
func (p *Predictor) PredictBatch(tokens []string, antibiotic string) []Prediction {
	results := make([]Prediction, 0, len(tokens))
	for _, token := range tokens {
		results = append(results, p.Predict(token, antibiotic))
	}
	return results
}

func riskLevel(prob float64) string {
	switch {
	case prob > 0.8:
		return RiskHigh
	case prob > 0.5:
		return RiskModerate
	default:
		return RiskLow
	}
}
