package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxReferenceLength    = 50
	principalSuffixLength = 8
	randomSuffixLength    = 6
	base36Alphabet        = "0123456789abcdefghijklmnopqrstuvwxyz"
	// largest multiple of 36 that fits in a byte; higher bytes are resampled
	base36Cutoff = 252
)

// ReferenceGenerator builds transaction references of the form
// <prefix>_<principal suffix>_<unix millis>_<random base36>.
type ReferenceGenerator struct {
	now    func() time.Time
	random io.Reader
	prefix string
}

// NewReferenceGenerator creates a generator using crypto/rand
func NewReferenceGenerator(prefix string) *ReferenceGenerator {
	return &ReferenceGenerator{
		now:    time.Now,
		random: rand.Reader,
		prefix: prefix,
	}
}

// Generate returns a new reference for principalID, at most 50 characters
func (g *ReferenceGenerator) Generate(principalID uuid.UUID) (string, error) {
	suffix, err := g.randomSuffix()
	if err != nil {
		return "", fmt.Errorf("failed to generate reference suffix: %w", err)
	}

	id := principalID.String()
	ref := strings.Join([]string{
		g.prefix,
		id[len(id)-principalSuffixLength:],
		strconv.FormatInt(g.now().UnixMilli(), 10),
		suffix,
	}, "_")

	if len(ref) > maxReferenceLength {
		ref = ref[:maxReferenceLength]
	}
	return ref, nil
}

func (g *ReferenceGenerator) randomSuffix() (string, error) {
	out := make([]byte, 0, randomSuffixLength)
	buf := make([]byte, randomSuffixLength*2)

	for len(out) < randomSuffixLength {
		if _, err := io.ReadFull(g.random, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= base36Cutoff {
				continue
			}
			out = append(out, base36Alphabet[int(b)%len(base36Alphabet)])
			if len(out) == randomSuffixLength {
				break
			}
		}
	}

	return string(out), nil
}
