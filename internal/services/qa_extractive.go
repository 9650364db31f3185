package services

import (
	"context"
	"strings"
	"unicode"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"

	"vark-assistant/internal/models"
)

// maxTermDistance is how far (in edits) a context word may drift from a
// question term and still count, e.g. "learner" vs "learners".
const maxTermDistance = 2

var stopwords = map[string]struct{}{
	"a": {}, "about": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"by": {}, "can": {}, "describe": {}, "did": {}, "do": {}, "does": {}, "for": {},
	"from": {}, "how": {}, "i": {}, "in": {}, "is": {}, "it": {}, "me": {}, "my": {},
	"of": {}, "on": {}, "or": {}, "should": {}, "tell": {}, "that": {}, "the": {},
	"their": {}, "they": {}, "this": {}, "to": {}, "what": {}, "whats": {}, "when": {},
	"which": {}, "who": {}, "why": {}, "with": {}, "you": {}, "your": {},
}

// headerSeparators split "Describe visual learners - Visual learners prefer ..."
// style sentences into a heading and the answer proper.
var headerSeparators = []string{" - ", ": "}

type span struct {
	start, end int
}

// ExtractiveQA answers by picking the context sentence that best covers the
// question's terms. The answer is always a verbatim slice of the context and
// never empty: with nothing to match it falls back to the opening sentence.
type ExtractiveQA struct{}

func NewExtractiveQA() *ExtractiveQA {
	return &ExtractiveQA{}
}

// candidate scores one sentence: coverage is how many distinct question terms
// it contains, density is term hits per word.
type candidate struct {
	index    int
	coverage int
	density  float64
}

func (c candidate) beats(other candidate) bool {
	if c.coverage != other.coverage {
		return c.coverage > other.coverage
	}
	return c.density > other.density
}

func (q *ExtractiveQA) Answer(ctx context.Context, req models.QARequest) (*models.QAResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sentences := splitSentences(req.Context)
	if len(sentences) == 0 {
		return &models.QAResult{}, nil
	}

	terms := questionTerms(req.Question)
	best := candidate{index: 0}

	for i, s := range sentences {
		words := tokenize(req.Context[s.start:s.end])
		if len(words) == 0 {
			continue
		}
		c := candidate{index: i}
		hits := 0
		for _, term := range terms {
			if n := countMatches(term, words); n > 0 {
				c.coverage++
				hits += n
			}
		}
		c.density = float64(hits) / float64(len(words))
		if c.coverage > 0 && c.beats(best) {
			best = c
		}
	}

	score := 0.0
	if len(terms) > 0 {
		score = float64(best.coverage) / float64(len(terms))
	}

	s := trimHeader(req.Context, sentences[best.index])
	return &models.QAResult{
		Answer: req.Context[s.start:s.end],
		Score:  score,
		Start:  s.start,
		End:    s.end,
	}, nil
}

func questionTerms(question string) []string {
	terms := lo.Filter(tokenize(question), func(w string, _ int) bool {
		_, stop := stopwords[w]
		return !stop && len(w) > 1
	})
	return lo.Uniq(terms)
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return lo.Map(fields, func(f string, _ int) string {
		return strings.ToLower(f)
	})
}

func countMatches(term string, words []string) int {
	ranks := fuzzy.RankFindFold(term, words)
	return lo.CountBy(ranks, func(r fuzzy.Rank) bool {
		return r.Distance <= maxTermDistance
	})
}

// splitSentences returns byte spans of each sentence in text, including the
// terminating punctuation and excluding surrounding whitespace.
func splitSentences(text string) []span {
	var out []span
	start := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '?' && c != '!' {
			continue
		}
		if i+1 < len(text) && text[i+1] != ' ' {
			continue
		}
		if s, ok := trimSpan(text, start, i+1); ok {
			out = append(out, s)
		}
		start = i + 1
	}
	if s, ok := trimSpan(text, start, len(text)); ok {
		out = append(out, s)
	}
	return out
}

func trimSpan(text string, start, end int) (span, bool) {
	for start < end && text[start] == ' ' {
		start++
	}
	for end > start && text[end-1] == ' ' {
		end--
	}
	return span{start: start, end: end}, end > start
}

func trimHeader(text string, s span) span {
	sentence := text[s.start:s.end]
	for _, sep := range headerSeparators {
		if idx := strings.Index(sentence, sep); idx > 0 {
			rest := s.start + idx + len(sep)
			if rest < s.end {
				return span{start: rest, end: s.end}
			}
		}
	}
	return s
}
