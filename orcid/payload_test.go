package orcid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNode_LookupsAreTotal(t *testing.T) {
	n := mustParse(t, `{"a": {"b": [1, "two", null]}, "s": "x"}`)

	assert.Equal(t, "1", n.Get("a", "b").Index(0).String())
	assert.Equal(t, "two", n.Get("a", "b").Index(1).String())
	assert.False(t, n.Get("a", "b").Index(2).Present())
	assert.False(t, n.Get("a", "b").Index(7).Present())
	assert.False(t, n.Get("s", "deeper").Present())
	assert.Nil(t, n.Get("s").List())

	_, ok := n.Get("a").Text()
	assert.False(t, ok)
}

func TestNode_LargeIntegersKeepTheirDigits(t *testing.T) {
	n := mustParse(t, `{"put-code": 123456789012345}`)
	assert.Equal(t, "123456789012345", n.Get("put-code").String())
}

func TestNode_Size(t *testing.T) {
	assert.Equal(t, 0, Node{}.Size())
	assert.Equal(t, len(`{"k":"v"}`), mustParse(t, `{ "k" : "v" }`).Size())
}
