package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactText(t *testing.T) {
	assert.Equal(t, "ab1234", CompactText("AB-1234"))
	assert.Equal(t, "oilfilter", CompactText("  Oil / Filter!! "))
	assert.Equal(t, "größe12", CompactText("Größe 1-2"))
	assert.Equal(t, "", CompactText("--- ..."))
}

func TestTrigrams(t *testing.T) {
	assert.Nil(t, Trigrams(""))
	assert.Equal(t, []string{"ab"}, Trigrams("ab"))
	assert.Equal(t, []string{"abc"}, Trigrams("abc"))
	assert.Equal(t, []string{"ab1", "b12", "123"}, Trigrams("ab123"))
	assert.Equal(t, []string{"grö", "röß", "öße"}, Trigrams("größe"))
}

func TestBuildTermsUnionsFields(t *testing.T) {
	terms := BuildTerms("AB-12", "Belt", "X1")
	assert.Equal(t, []string{"ab1", "b12", "bel", "elt", "x1"}, terms)
	assert.Empty(t, BuildTerms("", "  ", "-"))
}

func TestQueryTokensDeduplicates(t *testing.T) {
	normalized, tokens := QueryTokens("aaaa")
	assert.Equal(t, "aaaa", normalized)
	assert.Equal(t, []string{"aaa"}, tokens)

	normalized, tokens = QueryTokens(" - ")
	assert.Empty(t, normalized)
	assert.Nil(t, tokens)
}

func TestIsShortQuery(t *testing.T) {
	assert.False(t, IsShortQuery(""))
	assert.True(t, IsShortQuery("a"))
	assert.True(t, IsShortQuery("é1"))
	assert.False(t, IsShortQuery("abc"))
}

func TestMatchesRequiresContiguousSubstring(t *testing.T) {
	assert.True(t, Matches("1234", "AB-1234", "", ""))
	assert.True(t, Matches("b-12", "AB-1234", "", ""))
	assert.True(t, Matches("filter", "X", "Oil Filter", ""))
	assert.False(t, Matches("abcd", "", "abc bcd", ""))
	assert.False(t, Matches("", "anything"))
}
