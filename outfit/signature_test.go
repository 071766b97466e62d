package outfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureOrderIndependent(t *testing.T) {
	a := Signature([]string{"t1", "b1", "s1"})
	b := Signature([]string{"s1", "t1", "b1"})
	c := Signature([]string{"b1", "s1", "t1"})
	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Equal(t, "b1|s1|t1", a)
}

func TestSignatureSkipsBlanks(t *testing.T) {
	assert.Equal(t, "b1|t1", Signature([]string{"t1", "", "b1"}))
	assert.Equal(t, "", Signature([]string{"", ""}))
	assert.Equal(t, "", Signature(nil))
}

func TestSignatureDoesNotMutateInput(t *testing.T) {
	ids := []string{"t1", "b1"}
	Signature(ids)
	assert.Equal(t, []string{"t1", "b1"}, ids)
}

func TestCandidateSignature(t *testing.T) {
	shoes := item("s1", "shoes", "white")
	withShoes := Candidate{Top: item("t1", "shirt", "white"), Bottom: item("b1", "pants", "black"), Shoes: &shoes}
	assert.Equal(t, "b1|s1|t1", withShoes.Signature())

	withoutShoes := Candidate{Top: item("t1", "shirt", "white"), Bottom: item("b1", "pants", "black")}
	assert.Equal(t, "b1|t1", withoutShoes.Signature())
}

func TestSignatureSet(t *testing.T) {
	set := NewSignatureSet("b1|t1")
	assert.True(t, set.Has("b1|t1"))
	assert.False(t, set.Has("b2|t1"))

	set.Add("b2|t1")
	assert.True(t, set.Has("b2|t1"))

	set.Add("")
	assert.False(t, set.Has(""))
}
