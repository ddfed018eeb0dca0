package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "sbfa_txns_a@b.com_2026-01", TransactionsKey("a@b.com", "2026-01"))
	assert.Equal(t, "sbfa_period_a@b.com_2026-01", PeriodStatusKey("a@b.com", "2026-01"))
	assert.Equal(t, "sbfa_business_a@b.com", BusinessInfoKey("a@b.com"))
}

func TestKeyPrefixesCoverKeys(t *testing.T) {
	identity := "a@b.com"
	keys := []string{
		TransactionsKey(identity, "2026-01"),
		TransactionsKey(identity, "2026-12"),
		PeriodStatusKey(identity, "2026-01"),
		BusinessInfoKey(identity),
	}

	for _, key := range keys {
		covered := false
		for _, prefix := range IdentityKeyPrefixes(identity) {
			if strings.HasPrefix(key, prefix) {
				covered = true
			}
		}
		assert.True(t, covered, "key %s not covered by identity prefixes", key)
	}
}

func TestKeysDistinctAcrossIdentitiesAndPeriods(t *testing.T) {
	seen := map[string]bool{}
	for _, identity := range []string{"a@b.com", "c@d.com"} {
		for _, period := range []string{"2026-01", "2026-02"} {
			for _, key := range []string{TransactionsKey(identity, period), PeriodStatusKey(identity, period)} {
				assert.False(t, seen[key], "duplicate key %s", key)
				seen[key] = true
			}
		}
	}
}
