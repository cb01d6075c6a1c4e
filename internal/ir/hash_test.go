package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaseIDDeterminism(t *testing.T) {
	input := IRString("not-an-email")

	id1, err := CaseID("email", 3, input)
	require.NoError(t, err)

	id2, err := CaseID("email", 3, input)
	require.NoError(t, err)

	assert.Equal(t, id1, id2, "CaseID must be deterministic")
	assert.Len(t, id1, 64, "SHA-256 hex is 64 characters")
}

func TestCaseIDChangesWithInput(t *testing.T) {
	base, err := CaseID("email", 0, IRString("a@b.c"))
	require.NoError(t, err)

	otherFormat, err := CaseID("hostname", 0, IRString("a@b.c"))
	require.NoError(t, err)
	otherIndex, err := CaseID("email", 1, IRString("a@b.c"))
	require.NoError(t, err)
	otherInput, err := CaseID("email", 0, IRString("a@b.d"))
	require.NoError(t, err)

	assert.NotEqual(t, base, otherFormat)
	assert.NotEqual(t, base, otherIndex)
	assert.NotEqual(t, base, otherInput)
}

func TestCaseIDNilInput(t *testing.T) {
	fromNil, err := CaseID("date", 0, nil)
	require.NoError(t, err)
	fromNull, err := CaseID("date", 0, IRNull{})
	require.NoError(t, err)

	assert.Equal(t, fromNull, fromNil)
}

func TestHashWithDomainSeparation(t *testing.T) {
	data := []byte(`{"a":1}`)
	assert.NotEqual(t, hashWithDomain("d1", data), hashWithDomain("d2", data))
}
