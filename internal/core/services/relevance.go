package services

import (
	"strings"
	"sync"
)

// RelevanceClassifier decides whether a question is about the portfolio
// owner's personal or professional domain. It is a blunt heuristic, a
// case-insensitive substring test against a curated term list, kept behind
// this one type so it can be swapped for a real classifier without touching
// the orchestrator's state machine.
//
// The term list is replaceable at runtime: the settings watcher calls
// SetTerms when the config file changes.
type RelevanceClassifier struct {
	mu    sync.RWMutex
	terms []string
}

// NewRelevanceClassifier creates a classifier over the given terms.
// Terms are lowercased once at construction.
func NewRelevanceClassifier(terms []string) *RelevanceClassifier {
	c := &RelevanceClassifier{}
	c.SetTerms(terms)
	return c
}

// IsSubjectRelevant reports whether the question mentions any subject term.
func (c *RelevanceClassifier) IsSubjectRelevant(question string) bool {
	q := strings.ToLower(question)

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, term := range c.terms {
		if term != "" && strings.Contains(q, term) {
			return true
		}
	}
	return false
}

// SetTerms replaces the term list.
func (c *RelevanceClassifier) SetTerms(terms []string) {
	lowered := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			lowered = append(lowered, t)
		}
	}

	c.mu.Lock()
	c.terms = lowered
	c.mu.Unlock()
}

// Terms returns a copy of the active term list.
func (c *RelevanceClassifier) Terms() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.terms...)
}
