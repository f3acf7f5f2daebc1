package codes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCodeRoundTrip(t *testing.T) {
	codec, err := NewCardCodec("test-salt")
	require.NoError(t, err)

	for _, seq := range []int64{1, 42, 99999} {
		code, err := codec.Encode(seq)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(code), 8)

		got, err := codec.Decode(code)
		require.NoError(t, err)
		assert.Equal(t, seq, got)
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec, err := NewCardCodec("test-salt")
	require.NoError(t, err)

	for _, code := range []string{"", "!!!", "aaaaaaaa"} {
		_, err := codec.Decode(code)
		assert.Error(t, err)
	}
}

func TestDifferentSaltsProduceDifferentCodes(t *testing.T) {
	a, err := NewCardCodec("salt-a")
	require.NoError(t, err)
	b, err := NewCardCodec("salt-b")
	require.NoError(t, err)

	codeA, err := a.Encode(7)
	require.NoError(t, err)
	codeB, err := b.Encode(7)
	require.NoError(t, err)

	assert.NotEqual(t, codeA, codeB)
}
