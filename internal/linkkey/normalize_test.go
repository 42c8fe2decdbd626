package linkkey

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEquivalence(t *testing.T) {
	key := Normalize("Ёлка")
	assert.Equal(t, "ЕЛКА", key)
	assert.Equal(t, key, Normalize("ёлка"))
	assert.Equal(t, key, Normalize("ЕЛКА"))
	assert.Equal(t, key, Normalize("Елка"))
	// decomposed е + combining diaeresis
	assert.Equal(t, key, Normalize("е\u0308лка"))
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Новый   год", "НОВЫЙ ГОД"},
		{"Новый\t\tгод", "НОВЫЙ ГОД"},
		{"  Новый год\n", "НОВЫЙ ГОД"},
		{"Новый год", "НОВЫЙ ГОД"},
		{"", ""},
		{" \t ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestNormalizeKeepsOtherLetters(t *testing.T) {
	assert.Equal(t, "ЙОД", Normalize("йод"))
	assert.Equal(t, "NAME (SURNAME)", Normalize("Name (Surname)"))
}

func TestNormalizerExtraFolds(t *testing.T) {
	n := NewNormalizer(map[rune]rune{'й': 'и'})
	assert.Equal(t, "ИОД", n.Normalize("Йод"))
	assert.True(t, n.Equal("ёлка", "ЕЛКА"))
	assert.Equal(t, 'Е', n.Folds()['Ё'])
	assert.Equal(t, "ЙОД", Normalize("йод"), "default normalizer must not see extra folds")
}

func TestNormalizeConcurrent(t *testing.T) {
	n := NewNormalizer(nil)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := n.Normalize("ёлка  зелёная"); got != "ЕЛКА ЗЕЛЕНАЯ" {
					t.Errorf("Normalize = %q", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
