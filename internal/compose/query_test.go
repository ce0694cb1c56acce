package compose

import (
	"reflect"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		isQuery bool
		terms   []string
	}{
		{"plain statement", "good morning", false, nil},
		{"what question", "what is my favorite color", true, []string{"favorite", "color"}},
		{"who question", "Who is Marie Curie?", true, []string{"marie", "curie"}},
		{"remember cue", "do you remember our trip to Lisbon", true, []string{"trip", "lisbon"}},
		{"know cue", "you know my birthday", true, []string{"birthday"}},
		{"stop words excluded", "what about that and this", true, nil},
		{"short tokens excluded", "why is it so far", true, nil},
		{"terms capped at three", "where are project alpha beta gamma delta notes", true, []string{"project", "alpha", "beta"}},
		{"punctuation trimmed", "what's in the garden?", true, []string{"garden"}},
		{"case insensitive marker", "WHAT happened yesterday", true, []string{"happened", "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isQuery, terms := Classify(tt.input)
			if isQuery != tt.isQuery {
				t.Errorf("Classify(%q) isQuery = %v, want %v", tt.input, isQuery, tt.isQuery)
			}
			if !reflect.DeepEqual(terms, tt.terms) {
				t.Errorf("Classify(%q) terms = %v, want %v", tt.input, terms, tt.terms)
			}
		})
	}
}

func TestClassifyIsPure(t *testing.T) {
	a1, t1 := Classify("what is the plan")
	a2, t2 := Classify("what is the plan")
	if a1 != a2 || !reflect.DeepEqual(t1, t2) {
		t.Error("Classify must be deterministic")
	}
}
