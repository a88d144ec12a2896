// Package similarity compares two skill sets as bag-of-words documents.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/spigell/linky/internal/ai"
)

const (
	DefaultOffset  = 20.0
	DefaultCeiling = 98.0
)

var tokenRe = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Scorer turns cosine similarity into a compatibility score:
// min(cosine*100 + Offset, Ceiling).
type Scorer struct {
	Offset  float64
	Ceiling float64
}

func NewScorer(offset, ceiling float64) *Scorer {
	return &Scorer{Offset: offset, Ceiling: ceiling}
}

// Default returns the scorer with the production constants.
func Default() *Scorer {
	return NewScorer(DefaultOffset, DefaultCeiling)
}

// Score returns exactly 0 when either set is empty, without building vectors.
func (s *Scorer) Score(resume, job ai.SkillSet) float64 {
	if len(resume) == 0 || len(job) == 0 {
		return 0
	}

	return math.Min(Cosine(resume, job)*100+s.Offset, s.Ceiling)
}

// Cosine joins each set into one document and returns the cosine similarity of
// their term-frequency vectors. A document without tokens scores 0.
func Cosine(a, b ai.SkillSet) float64 {
	va, vb, _ := Vectors(a, b)

	var dot, na, nb float64
	for i := range va {
		dot += va[i] * vb[i]
		na += va[i] * va[i]
		nb += vb[i] * vb[i]
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Vectors builds term counts for both sets over their joint, sorted vocabulary.
func Vectors(a, b ai.SkillSet) ([]float64, []float64, []string) {
	ca, cb := counts(a), counts(b)

	vocab := make([]string, 0, len(ca)+len(cb))
	for term := range ca {
		vocab = append(vocab, term)
	}
	for term := range cb {
		if _, ok := ca[term]; !ok {
			vocab = append(vocab, term)
		}
	}
	sort.Strings(vocab)

	va := make([]float64, len(vocab))
	vb := make([]float64, len(vocab))
	for i, term := range vocab {
		va[i] = float64(ca[term])
		vb[i] = float64(cb[term])
	}

	return va, vb, vocab
}

// Tokens splits a document the way a default count vectorizer does: lower-cased
// runs of letters, digits and underscores, at least two characters long.
func Tokens(doc string) []string {
	var tokens []string
	for _, token := range tokenRe.FindAllString(strings.ToLower(doc), -1) {
		if utf8.RuneCountInString(token) >= 2 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func counts(skills ai.SkillSet) map[string]int {
	c := make(map[string]int)
	for _, token := range Tokens(strings.Join(skills, " ")) {
		c[token]++
	}
	return c
}
