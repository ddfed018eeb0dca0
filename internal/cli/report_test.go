package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareRejectsMalformedPeriods(t *testing.T) {
	restoreFrom, restoreTo := compareFrom, compareTo
	t.Cleanup(func() { compareFrom, compareTo = restoreFrom, restoreTo })

	t.Run("bad from flag", func(t *testing.T) {
		compareFrom, compareTo = "2026-1", "2026-02"
		err := reportCompareCmd.RunE(reportCompareCmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid period")
	})

	t.Run("bad to flag", func(t *testing.T) {
		compareFrom, compareTo = "2026-01", "January"
		err := reportCompareCmd.RunE(reportCompareCmd, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid period")
	})
}
