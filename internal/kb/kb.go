// Package kb provides the curated resistance knowledge base.
package kb

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Entry is one curated resistance mutation for a gene.
type Entry struct {
	Mutation  string `json:"mutation"`
	Phenotype string `json:"phenotype"`
	Structure string `json:"structure"`
}

// KnowledgeBase maps gene name to its curated resistance mutations.
// Read-only after Load; safe for concurrent lookups.
type KnowledgeBase struct {
	genes map[string][]Entry
}

// Empty returns a knowledge base with no entries.
func Empty() *KnowledgeBase {
	return &KnowledgeBase{genes: map[string][]Entry{}}
}

// Load reads a JSON knowledge base of the form
//
//	{"gyrA": [{"mutation": "S83L", "phenotype": "...", "structure": "3NUU"}]}
//
// A missing file is not an error: classification then falls through to
// the model or VUS, and the caller decides whether to warn. Malformed
// JSON is an error.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	genes := map[string][]Entry{}
	if err := json.Unmarshal(data, &genes); err != nil {
		return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
	}
	return &KnowledgeBase{genes: genes}, nil
}

// Lookup finds the entry for an exact (gene, mutation token) match.
func (k *KnowledgeBase) Lookup(gene, token string) (Entry, bool) {
	for _, e := range k.genes[gene] {
		if e.Mutation == token {
			return e, true
		}
	}
	return Entry{}, false
}

// Entries returns the curated mutations for a gene.
func (k *KnowledgeBase) Entries(gene string) []Entry {
	return k.genes[gene]
}

// Genes returns all gene names in sorted order.
func (k *KnowledgeBase) Genes() []string {
	names := make([]string, 0, len(k.genes))
	for g := range k.genes {
		names = append(names, g)
	}
	sort.Strings(names)
	return names
}

// Len returns the total number of curated mutations.
func (k *KnowledgeBase) Len() int {
	n := 0
	for _, entries := range k.genes {
		n += len(entries)
	}
	return n
}
