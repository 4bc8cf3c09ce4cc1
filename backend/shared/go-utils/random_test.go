package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRandomNumericString(t *testing.T) {
	for _, length := range []int{1, 4, 6, 10} {
		code := RandomNumericString(length)
		require.Len(t, code, length)
		for _, r := range code {
			require.True(t, r >= '0' && r <= '9', "unexpected rune %q in %q", r, code)
		}
	}
	require.Equal(t, "", RandomNumericString(0))
	require.Equal(t, "", RandomNumericString(-3))
}

func TestRandomNumericStringCoversAllDigits(t *testing.T) {
	seen := map[rune]bool{}
	for i := 0; i < 500 && len(seen) < 10; i++ {
		for _, r := range RandomNumericString(6) {
			seen[r] = true
		}
	}
	require.Len(t, seen, 10)
}
