package keyword

import (
	"errors"
	"slices"
	"testing"
)

type mockTermDictionary struct {
	terms        map[string]int
	getAllError  error
	getFreqError error
	loads        int
}

func newMockTermDictionary(terms map[string]int) *mockTermDictionary {
	return &mockTermDictionary{terms: terms}
}

func (m *mockTermDictionary) GetAllTerms() ([]string, error) {
	m.loads++
	if m.getAllError != nil {
		return nil, m.getAllError
	}
	result := make([]string, 0, len(m.terms))
	for term := range m.terms {
		result = append(result, term)
	}
	return result, nil
}

func (m *mockTermDictionary) GetTermFrequency(term string) (int, error) {
	if m.getFreqError != nil {
		return 0, m.getFreqError
	}
	return m.terms[term], nil
}

func TestSpellChecker_Defaults(t *testing.T) {
	sc := NewSpellChecker(newMockTermDictionary(nil))
	if sc.maxDistance != 2 || sc.minFreq != 1 || sc.maxSuggestions != 5 {
		t.Errorf("defaults = (%d, %d, %d), want (2, 1, 5)", sc.maxDistance, sc.minFreq, sc.maxSuggestions)
	}

	sc = NewSpellChecker(newMockTermDictionary(nil), WithMaxDistance(1), WithMinFrequency(3), WithMaxSuggestions(2), WithMaxDistance(-4))
	if sc.maxDistance != 1 || sc.minFreq != 3 || sc.maxSuggestions != 2 {
		t.Errorf("options = (%d, %d, %d), want (1, 3, 2)", sc.maxDistance, sc.minFreq, sc.maxSuggestions)
	}
}

func TestSpellChecker_Suggest(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{
		"theft":  4,
		"thefts": 1,
		"fraud":  2,
		"frau":   1,
		"wallet": 1,
	})
	sc := NewSpellChecker(dict)

	tests := []struct {
		name string
		word string
		want []string
	}{
		{"known word", "theft", nil},
		{"misspelled", "thaft", []string{"theft", "thefts"}},
		{"uppercase input", "FRAUDD", []string{"fraud", "frau"}},
		{"too short", "th", nil},
		{"nothing close", "zzzzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sc.Suggest(tt.word)
			if err != nil {
				t.Fatalf("Suggest: %v", err)
			}
			terms := make([]string, len(got))
			for i, s := range got {
				terms[i] = s.Term
			}
			if !slices.Equal(terms, tt.want) {
				t.Errorf("Suggest(%q) = %v, want %v", tt.word, terms, tt.want)
			}
		})
	}
	if dict.loads != 1 {
		t.Errorf("dictionary loaded %d times, want 1", dict.loads)
	}
}

func TestSpellChecker_MinFrequencyAndLimit(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"parking": 1, "parkinh": 5, "barking": 3})
	sc := NewSpellChecker(dict, WithMinFrequency(2), WithMaxSuggestions(1))

	got, err := sc.Suggest("parkin")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0].Term != "parkinh" {
		t.Errorf("Suggest = %+v, want only parkinh", got)
	}
}

func TestSpellChecker_Suggestions(t *testing.T) {
	sc := NewSpellChecker(newMockTermDictionary(map[string]int{
		"vehicle": 2, "theft": 4, "online": 2, "fraud": 2,
	}))

	got, err := sc.Suggestions("vehical theft")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if !slices.Equal(got, []string{"vehicle theft"}) {
		t.Errorf("Suggestions(phrase) = %v", got)
	}

	got, err = sc.Suggestions("onlin")
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}
	if !slices.Equal(got, []string{"online"}) {
		t.Errorf("Suggestions(word) = %v", got)
	}

	got, err = sc.Suggestions("online fraud")
	if err != nil || got != nil {
		t.Errorf("Suggestions(correct phrase) = %v, %v; want nil", got, err)
	}
	got, err = sc.Suggestions("  ")
	if err != nil || got != nil {
		t.Errorf("Suggestions(blank) = %v, %v; want nil", got, err)
	}
}

func TestSpellChecker_IsMisspelled(t *testing.T) {
	sc := NewSpellChecker(newMockTermDictionary(map[string]int{"assault": 1}))
	if bad, _ := sc.IsMisspelled("Assault"); bad {
		t.Error("Assault should be known")
	}
	if bad, _ := sc.IsMisspelled("asault"); !bad {
		t.Error("asault should be misspelled")
	}
}

func TestSpellChecker_DictionaryErrors(t *testing.T) {
	dict := newMockTermDictionary(map[string]int{"theft": 1})
	dict.getAllError = errors.New("boom")
	if _, err := NewSpellChecker(dict).Suggest("thef"); err == nil {
		t.Error("expected GetAllTerms error")
	}

	dict = newMockTermDictionary(map[string]int{"theft": 1})
	dict.getFreqError = errors.New("boom")
	if _, err := NewSpellChecker(dict).Suggestions("thef"); err == nil {
		t.Error("expected GetTermFrequency error")
	}
}
