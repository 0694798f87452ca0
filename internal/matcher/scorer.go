// Package matcher scores catalog candidates against normalized queries
// and selects the ranked match list.
package matcher

import (
	"strings"

	"foodrec/internal/config"
	"foodrec/internal/domain"
)

// Base similarity blend. Token-set similarity carries word-reorder
// robustness; edit similarity carries typo tolerance.
const (
	tokenSetWeight = 0.55
	editWeight     = 0.45
)

// Short-string edit bonuses: for very short product names a single
// edit is almost always a typo (mlk -> milk).
const (
	shortStringLen   = 5
	shortEditOne     = 0.25
	shortEditTwo     = 0.12
	longEditOneBonus = 0.08
)

// Scorer computes similarity scores in [0,1]. It is deterministic and
// safe for concurrent use.
type Scorer struct {
	cfg config.MatchingConfig
}

// NewScorer creates a Scorer with the given tuning.
func NewScorer(cfg config.MatchingConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score blends lexical similarity between the canonical query text and
// the candidate's display name with brand-token agreement. Identical
// inputs always yield the identical score.
func (s *Scorer) Score(q domain.NormalizedQuery, c domain.CandidateRecord) float64 {
	qn := q.CanonicalText
	cn := canonicalName(c.DisplayName)
	if qn == "" || cn == "" {
		return 0
	}

	base := tokenSetWeight*tokenSetSimilarity(qn, cn) + editWeight*editSimilarity(qn, cn)
	base += shortEditBonus(qn, cn)

	switch brandAgreement(q.BrandTokens, c.Brand) {
	case brandAgrees:
		base += s.cfg.BrandBonus
	case brandContradicts:
		base -= s.cfg.BrandPenalty
	}

	return clamp01(base)
}

type brandVerdict int

const (
	brandNeutral brandVerdict = iota
	brandAgrees
	brandContradicts
)

// brandAgreement checks the candidate's brand against the query's brand
// tokens. A candidate without a brand is neutral; with a brand, it
// agrees when any token is contained in the brand (or vice versa) and
// contradicts when none is.
func brandAgreement(tokens []string, candBrand string) brandVerdict {
	if len(tokens) == 0 {
		return brandNeutral
	}
	cb := strings.ToLower(strings.TrimSpace(candBrand))
	if cb == "" {
		return brandNeutral
	}
	for _, tok := range tokens {
		if strings.Contains(cb, tok) || strings.Contains(tok, cb) {
			return brandAgrees
		}
	}
	return brandContradicts
}

// canonicalName lowercases and collapses whitespace; candidate names
// arrive already trimmed from the catalog boundary.
func canonicalName(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// tokenSetSimilarity measures order-independent overlap: the shared
// token mass relative to the more informative (longer) side, blended
// with plain set overlap so partial names still rank.
func tokenSetSimilarity(a, b string) float64 {
	at := tokenSet(a)
	bt := tokenSet(b)
	if len(at) == 0 || len(bt) == 0 {
		return 0
	}

	var sharedMass, aMass, bMass float64
	for tok := range at {
		aMass += float64(len(tok))
		if _, ok := bt[tok]; ok {
			sharedMass += float64(len(tok))
		}
	}
	for tok := range bt {
		bMass += float64(len(tok))
	}

	longer := aMass
	if bMass > longer {
		longer = bMass
	}
	if longer == 0 {
		return 0
	}
	// Weight overlap by the longer string's informativeness, softened
	// by overlap against the shorter side so "milk" vs "whole milk"
	// keeps a usable score.
	shorter := aMass + bMass - longer
	if shorter == 0 {
		return 0
	}
	return 0.5*(sharedMass/longer) + 0.5*(sharedMass/shorter)
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

// editSimilarity is 1 - normalized Damerau-Levenshtein distance over
// the whole strings.
func editSimilarity(a, b string) float64 {
	maxLen := len([]rune(a))
	if lb := len([]rune(b)); lb > maxLen {
		maxLen = lb
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(damerauLevenshtein(a, b))/float64(maxLen)
}

func shortEditBonus(a, b string) float64 {
	d := damerauLevenshtein(a, b)
	la, lb := len([]rune(a)), len([]rune(b))
	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}
	if maxLen <= shortStringLen {
		switch d {
		case 1:
			return shortEditOne
		case 2:
			return shortEditTwo
		}
		return 0
	}
	if d == 1 {
		return longEditOneBonus
	}
	return 0
}

// damerauLevenshtein computes the edit distance with adjacent
// transpositions, using a rolling three-row DP.
func damerauLevenshtein(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev2 := make([]int, lb+1)
	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && ra[i-1] == rb[j-2] && ra[i-2] == rb[j-1] {
				if t := prev2[j-2] + 1; t < curr[j] {
					curr[j] = t
				}
			}
		}
		prev2, prev, curr = prev, curr, prev2
	}
	return prev[lb]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
