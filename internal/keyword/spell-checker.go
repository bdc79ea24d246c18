package keyword

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"unicode"
)

// minSuggestLength is the shortest token that gets corrected.
const minSuggestLength = 3

// Suggestion is a candidate correction for a misspelled term.
type Suggestion struct {
	Term      string
	Distance  int
	Frequency int
	Score     float64
}

// SpellChecker proposes dictionary terms close to misspelled query tokens.
type SpellChecker struct {
	dictionary     TermDictionary
	maxDistance    int
	minFreq        int
	maxSuggestions int

	mu      sync.RWMutex
	loaded  bool
	terms   []string
	termSet map[string]int
}

// SpellCheckerOption configures a SpellChecker.
type SpellCheckerOption func(*SpellChecker)

// WithMaxDistance sets the maximum edit distance for suggestions.
func WithMaxDistance(d int) SpellCheckerOption {
	return func(sc *SpellChecker) {
		if d > 0 {
			sc.maxDistance = d
		}
	}
}

// WithMinFrequency sets the minimum document frequency for a suggested term.
func WithMinFrequency(f int) SpellCheckerOption {
	return func(sc *SpellChecker) {
		if f > 0 {
			sc.minFreq = f
		}
	}
}

// WithMaxSuggestions caps the number of suggestions per token.
func WithMaxSuggestions(n int) SpellCheckerOption {
	return func(sc *SpellChecker) {
		if n > 0 {
			sc.maxSuggestions = n
		}
	}
}

// NewSpellChecker creates a spell checker over dict. Terms are loaded on first use.
func NewSpellChecker(dict TermDictionary, opts ...SpellCheckerOption) *SpellChecker {
	sc := &SpellChecker{
		dictionary:     dict,
		maxDistance:    2,
		minFreq:        1,
		maxSuggestions: 5,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// RefreshCache reloads terms and frequencies from the dictionary.
func (sc *SpellChecker) RefreshCache() error {
	terms, err := sc.dictionary.GetAllTerms()
	if err != nil {
		return fmt.Errorf("failed to load terms: %w", err)
	}
	termSet := make(map[string]int, len(terms))
	kept := make([]string, 0, len(terms))
	for _, term := range terms {
		freq, err := sc.dictionary.GetTermFrequency(term)
		if err != nil {
			return fmt.Errorf("failed to load frequency for %q: %w", term, err)
		}
		termSet[term] = freq
		kept = append(kept, term)
	}
	slices.Sort(kept)

	sc.mu.Lock()
	sc.terms = kept
	sc.termSet = termSet
	sc.loaded = true
	sc.mu.Unlock()
	return nil
}

func (sc *SpellChecker) ensureLoaded() error {
	sc.mu.RLock()
	loaded := sc.loaded
	sc.mu.RUnlock()
	if loaded {
		return nil
	}
	return sc.RefreshCache()
}

// IsMisspelled reports whether word is absent from the dictionary.
func (sc *SpellChecker) IsMisspelled(word string) (bool, error) {
	if err := sc.ensureLoaded(); err != nil {
		return false, err
	}
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	_, ok := sc.termSet[strings.ToLower(word)]
	return !ok, nil
}

// Suggest returns candidate corrections for a single word, best first.
// Known words and words shorter than minSuggestLength get none.
func (sc *SpellChecker) Suggest(word string) ([]Suggestion, error) {
	if err := sc.ensureLoaded(); err != nil {
		return nil, err
	}
	word = strings.ToLower(word)
	if len([]rune(word)) < minSuggestLength {
		return nil, nil
	}

	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if _, ok := sc.termSet[word]; ok {
		return nil, nil
	}

	wordLen := len([]rune(word))
	var out []Suggestion
	for _, term := range sc.terms {
		diff := len([]rune(term)) - wordLen
		if diff > sc.maxDistance || -diff > sc.maxDistance {
			continue
		}
		freq := sc.termSet[term]
		if freq < sc.minFreq {
			continue
		}
		d := LevenshteinDistance(word, term)
		if d > sc.maxDistance {
			continue
		}
		out = append(out, Suggestion{
			Term:      term,
			Distance:  d,
			Frequency: freq,
			Score:     float64(freq) / float64(d+1),
		})
	}

	slices.SortFunc(out, func(a, b Suggestion) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Term, b.Term)
	})
	if len(out) > sc.maxSuggestions {
		out = out[:sc.maxSuggestions]
	}
	return out, nil
}

// Correct replaces each misspelled token of query with its best suggestion.
// The second result reports whether anything changed.
func (sc *SpellChecker) Correct(query string) (string, bool, error) {
	tokens := tokenizeQuery(query)
	changed := false
	for i, tok := range tokens {
		suggestions, err := sc.Suggest(tok)
		if err != nil {
			return "", false, err
		}
		if len(suggestions) > 0 {
			tokens[i] = suggestions[0].Term
			changed = true
		}
	}
	return strings.Join(tokens, " "), changed, nil
}

// Suggestions returns "did you mean" alternatives for query. A single-word query yields
// the closest terms; a longer query yields at most one corrected phrase.
func (sc *SpellChecker) Suggestions(query string) ([]string, error) {
	tokens := tokenizeQuery(query)
	switch len(tokens) {
	case 0:
		return nil, nil
	case 1:
		suggestions, err := sc.Suggest(tokens[0])
		if err != nil {
			return nil, err
		}
		out := make([]string, len(suggestions))
		for i, s := range suggestions {
			out[i] = s.Term
		}
		return out, nil
	}
	corrected, changed, err := sc.Correct(query)
	if err != nil || !changed {
		return nil, err
	}
	return []string{corrected}, nil
}

// tokenizeQuery lowercases query and splits it on anything that is not a letter or digit.
func tokenizeQuery(query string) []string {
	return strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
