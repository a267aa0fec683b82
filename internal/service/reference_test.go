package service

import (
	"bytes"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var referencePattern = regexp.MustCompile(`^CAR_[0-9a-f]{8}_[0-9]{13}_[0-9a-z]{6}$`)

type constantReader byte

func (c constantReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = byte(c)
	}
	return len(p), nil
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestReferenceGenerator_Format(t *testing.T) {
	gen := NewReferenceGenerator("CAR")
	principalID := uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00")

	ref, err := gen.Generate(principalID)

	require.NoError(t, err)
	assert.Regexp(t, referencePattern, ref)
	assert.True(t, strings.HasPrefix(ref, "CAR_ddeeff00_"))
	assert.LessOrEqual(t, len(ref), maxReferenceLength)
}

func TestReferenceGenerator_Deterministic(t *testing.T) {
	gen := NewReferenceGenerator("CAR")
	gen.now = func() time.Time { return time.UnixMilli(1760680000000) }
	gen.random = constantReader(37) // 37 % 36 = 1

	ref, err := gen.Generate(uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00"))

	require.NoError(t, err)
	assert.Equal(t, "CAR_ddeeff00_1760680000000_111111", ref)
}

func TestReferenceGenerator_RejectsBiasedBytes(t *testing.T) {
	gen := NewReferenceGenerator("CAR")
	gen.now = func() time.Time { return time.UnixMilli(1760680000000) }
	// Bytes >= 252 are discarded, so only the trailing 'z' values are used.
	stream := append(bytes.Repeat([]byte{255}, 12), bytes.Repeat([]byte{35}, 12)...)
	gen.random = bytes.NewReader(stream)

	ref, err := gen.Generate(uuid.MustParse("e1d2c3b4-a596-4788-99aa-bbccddeeff00"))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(ref, "_zzzzzz"), "got %s", ref)
}

func TestReferenceGenerator_TruncatesToFifty(t *testing.T) {
	gen := NewReferenceGenerator(strings.Repeat("P", 40))

	ref, err := gen.Generate(uuid.New())

	require.NoError(t, err)
	assert.Len(t, ref, maxReferenceLength)
}

func TestReferenceGenerator_EntropyFailure(t *testing.T) {
	gen := NewReferenceGenerator("CAR")
	gen.random = failingReader{}

	_, err := gen.Generate(uuid.New())

	assert.Error(t, err)
}

func TestReferenceGenerator_Unique(t *testing.T) {
	gen := NewReferenceGenerator("CAR")
	principalID := uuid.New()
	seen := make(map[string]struct{}, 2000)

	for range 2000 {
		ref, err := gen.Generate(principalID)
		require.NoError(t, err)
		_, dup := seen[ref]
		require.False(t, dup, "duplicate reference %s", ref)
		seen[ref] = struct{}{}
	}
}
