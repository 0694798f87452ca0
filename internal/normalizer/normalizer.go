// Package normalizer canonicalizes raw query text before candidate
// retrieval and scoring.
package normalizer

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"foodrec/internal/brands"
	"foodrec/internal/domain"
)

// DefaultKeepPunctuation is the punctuation preserved inside product
// names when none is configured; every other non-alphanumeric rune
// becomes a space.
const DefaultKeepPunctuation = "&-'"

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalizer canonicalizes queries and extracts brand tokens against a
// known-brand vocabulary. It is stateless apart from its configuration
// and safe for concurrent use.
type Normalizer struct {
	vocab *brands.Vocabulary
	keep  string
}

// New creates a Normalizer with the default kept-punctuation set. A nil
// vocabulary behaves as empty.
func New(vocab *brands.Vocabulary) *Normalizer {
	return NewWithPunctuation(vocab, DefaultKeepPunctuation)
}

// NewWithPunctuation creates a Normalizer that preserves the given
// punctuation runes during canonicalization.
func NewWithPunctuation(vocab *brands.Vocabulary, keep string) *Normalizer {
	if vocab == nil {
		vocab = brands.Empty()
	}
	return &Normalizer{vocab: vocab, keep: keep}
}

// Normalize derives the canonical form of q. It fails only when the
// text is empty after canonicalization.
func (n *Normalizer) Normalize(q domain.Query) (domain.NormalizedQuery, error) {
	canonical := n.Canonicalize(q.RawText)
	if canonical == "" {
		return domain.NormalizedQuery{}, fmt.Errorf("query %q: %w", q.ID, domain.ErrInvalidQuery)
	}

	tokens := map[string]struct{}{}
	for _, tok := range strings.Fields(canonical) {
		if n.vocab.Contains(tok) {
			tokens[tok] = struct{}{}
		}
	}
	// A caller-supplied brand hint counts as a brand token whether or
	// not the vocabulary knows it.
	if hint := n.Canonicalize(q.Brand); hint != "" {
		tokens[hint] = struct{}{}
	}

	brandTokens := make([]string, 0, len(tokens))
	for tok := range tokens {
		brandTokens = append(brandTokens, tok)
	}
	sort.Strings(brandTokens)

	return domain.NormalizedQuery{
		ID:            q.ID,
		CanonicalText: canonical,
		BrandTokens:   brandTokens,
	}, nil
}

// Canonicalize lowercases, strips accents, replaces punctuation outside
// the kept set with spaces, and collapses whitespace. Deterministic and
// total; returns "" for blank input.
func (n *Normalizer) Canonicalize(s string) string {
	folded, _, err := transform.String(stripAccents, strings.ToLower(s))
	if err != nil {
		folded = strings.ToLower(s)
	}

	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case strings.ContainsRune(n.keep, r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
