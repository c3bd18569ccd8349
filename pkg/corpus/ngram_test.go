package corpus

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNGrams(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		n      int
		want   [][]string
	}{
		{"empty_input", nil, 3, nil},
		{"zero_span", []string{"a", "b"}, 0, nil},
		{"unigrams", []string{"a", "b"}, 1, [][]string{{"a"}, {"b"}}},
		{
			name:   "up_to_trigrams",
			tokens: []string{"a", "b", "c"},
			n:      3,
			want:   [][]string{{"a"}, {"b"}, {"c"}, {"a", "b"}, {"b", "c"}, {"a", "b", "c"}},
		},
		{
			name:   "span_longer_than_input",
			tokens: []string{"x", "y"},
			n:      3,
			want:   [][]string{{"x"}, {"y"}, {"x", "y"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NGrams(tt.tokens, tt.n))
		})
	}
}

func TestNGramsRestartable(t *testing.T) {
	tokens := []string{"X", "Y", "X", "Y", "Z"}
	assert.Equal(t, NGrams(tokens, 2), NGrams(tokens, 2))
	assert.Len(t, NGrams(tokens, 2), 5+4)
}

func TestEachNGramStops(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := EachNGram([]string{"a", "b", "c"}, 3, func(gram []string) error {
		calls++
		if len(gram) == 2 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 4, calls)
}
