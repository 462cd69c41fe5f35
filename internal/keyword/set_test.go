package keyword

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet_MatchesDeclarationOrder(t *testing.T) {
	s := NewSet([]string{"handmade", "hand sewn", "factory sealed"})

	matched := s.Matches(Normalize("This hand-sewn bag is handmade with love"))

	assert.Equal(t, []string{"handmade", "hand sewn"}, matched)
}

func TestSet_EachKeywordOnce(t *testing.T) {
	s := NewSet([]string{"handmade"})

	matched := s.Matches(Normalize("handmade handmade handmade"))

	assert.Equal(t, []string{"handmade"}, matched)
}

func TestSet_NormalizesPunctuation(t *testing.T) {
	s := NewSet([]string{"print on demand"})

	assert.Equal(t, 1, s.Count(Normalize("Print-on-Demand shirts!")))
}

func TestSet_EmptyInputs(t *testing.T) {
	assert.Nil(t, NewSet(nil).Matches("anything"))
	assert.Nil(t, NewSet([]string{"x"}).Matches(""))
	assert.Equal(t, 0, NewSet([]string{" ", ""}).Size())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "hand sewn  100  cotton", Normalize("Hand-Sewn, 100% Cotton"))
}
