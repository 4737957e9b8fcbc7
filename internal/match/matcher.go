// Package match implements the keyword matching stage of the scoring
// pipeline: a single normalized-text scan against a precompiled term index.
package match

import (
	"sort"
	"strings"

	"github.com/atomustam/prospector/internal/model"
)

// termEntry records one category a normalized term belongs to. A term may
// legitimately belong to several categories and contributes to each.
type termEntry struct {
	category string
	term     string // Original taxonomy spelling, reported in matches
	class    model.WeightClass
}

// Matcher scans evidence text for taxonomy terms. It is immutable after
// construction and safe for concurrent use.
type Matcher struct {
	index        map[string][]termEntry // normalized term -> owning categories
	maxPhraseLen int
}

// NewMatcher precompiles the taxonomy into a token n-gram index. The
// taxonomy must already be validated; an empty taxonomy yields a matcher
// that never matches.
func NewMatcher(taxonomy map[string][]model.TaxonomyTerm) *Matcher {
	m := &Matcher{index: make(map[string][]termEntry)}

	for category, terms := range taxonomy {
		for _, t := range terms {
			tokens := Tokenize(Normalize(t.Term))
			if len(tokens) == 0 {
				continue
			}
			if len(tokens) > m.maxPhraseLen {
				m.maxPhraseLen = len(tokens)
			}
			key := strings.Join(tokens, " ")
			m.index[key] = append(m.index[key], termEntry{
				category: category,
				term:     t.Term,
				class:    t.Class,
			})
		}
	}
	return m
}

// Match scans the given text blocks and returns, per category, the taxonomy
// terms found with their occurrence counts. Matching is case-insensitive
// whole-word (or whole-phrase) comparison over normalized tokens. Empty or
// missing text yields zero matches, never an error.
func (m *Matcher) Match(blocks []string) map[string][]model.TermMatch {
	counts := make(map[string]map[string]*model.TermMatch)

	for _, block := range blocks {
		if block == "" {
			continue
		}
		tokens := Tokenize(Normalize(block))
		m.scan(tokens, counts)
	}

	result := make(map[string][]model.TermMatch, len(counts))
	for category, byTerm := range counts {
		matches := make([]model.TermMatch, 0, len(byTerm))
		for _, tm := range byTerm {
			matches = append(matches, *tm)
		}
		// Deterministic output order regardless of map iteration.
		sort.Slice(matches, func(i, j int) bool { return matches[i].Term < matches[j].Term })
		result[category] = matches
	}
	return result
}

// scan walks the token stream once, probing every phrase length the index
// holds at each position. Each occurrence of a term counts once per
// category it belongs to.
func (m *Matcher) scan(tokens []string, counts map[string]map[string]*model.TermMatch) {
	for i := range tokens {
		for n := 1; n <= m.maxPhraseLen && i+n <= len(tokens); n++ {
			key := strings.Join(tokens[i:i+n], " ")
			entries, ok := m.index[key]
			if !ok {
				continue
			}
			for _, e := range entries {
				byTerm := counts[e.category]
				if byTerm == nil {
					byTerm = make(map[string]*model.TermMatch)
					counts[e.category] = byTerm
				}
				tm := byTerm[e.term]
				if tm == nil {
					tm = &model.TermMatch{Term: e.term, Class: e.class}
					byTerm[e.term] = tm
				}
				tm.Count++
			}
		}
	}
}

// TermCount returns the number of distinct indexed terms, counting a term
// shared by two categories twice.
func (m *Matcher) TermCount() int {
	n := 0
	for _, entries := range m.index {
		n += len(entries)
	}
	return n
}
