package repository

import (
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	repo := NewBookingRepository(pool)
	assert.NotNil(t, repo)
}

func TestNewBookingReference(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		ref := newBookingReference()
		assert.Len(t, ref, 8)
		for _, c := range ref {
			assert.True(t, strings.ContainsRune(referenceAlphabet, c), "unexpected character %q in %s", c, ref)
		}
		seen[ref] = struct{}{}
	}
	// 100 draws from a 36^8 space colliding down to a handful would mean a
	// broken generator.
	assert.Greater(t, len(seen), 90)
}
