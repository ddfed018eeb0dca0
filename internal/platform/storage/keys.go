package storage

import "fmt"

// keyPrefix namespaces every ledger key in the store.
const keyPrefix = "sbfa"

// Well-known standalone keys, not scoped to identity or period.
const (
	LastBackupKey       = "lastBackupDate"
	WarningDismissedKey = "warningDismissed"
)

// TransactionsKey derives the key holding the transaction list for one
// (identity, period) pair. Distinct triples never collide: the category tag
// differs per function and the period suffix has the fixed YYYY-MM shape.
func TransactionsKey(identity, period string) string {
	return fmt.Sprintf("%s_txns_%s_%s", keyPrefix, identity, period)
}

// PeriodStatusKey derives the key holding the period-status record.
func PeriodStatusKey(identity, period string) string {
	return fmt.Sprintf("%s_period_%s_%s", keyPrefix, identity, period)
}

// BusinessInfoKey derives the key holding business info. Business info is
// period-independent, so the period is omitted.
func BusinessInfoKey(identity string) string {
	return fmt.Sprintf("%s_business_%s", keyPrefix, identity)
}

// TransactionsKeyPrefix matches every transaction key for an identity,
// across all periods.
func TransactionsKeyPrefix(identity string) string {
	return fmt.Sprintf("%s_txns_%s_", keyPrefix, identity)
}

// PeriodStatusKeyPrefix matches every period-status key for an identity.
func PeriodStatusKeyPrefix(identity string) string {
	return fmt.Sprintf("%s_period_%s_", keyPrefix, identity)
}

// IdentityKeyPrefixes matches every key owned by an identity, regardless of
// data category.
func IdentityKeyPrefixes(identity string) []string {
	return []string{
		TransactionsKeyPrefix(identity),
		PeriodStatusKeyPrefix(identity),
		BusinessInfoKey(identity),
	}
}
