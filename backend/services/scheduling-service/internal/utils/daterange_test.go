package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthToUTCRange(t *testing.T) {
	cases := []struct {
		month      string
		start, end string
	}{
		{"2024-03", "2024-03-01T00:00:00.000Z", "2024-03-31T23:59:59.999Z"},
		{"2024-02", "2024-02-01T00:00:00.000Z", "2024-02-29T23:59:59.999Z"},
		{"2023-02", "2023-02-01T00:00:00.000Z", "2023-02-28T23:59:59.999Z"},
		{"2024-12", "2024-12-01T00:00:00.000Z", "2024-12-31T23:59:59.999Z"},
		{"2024-4", "2024-04-01T00:00:00.000Z", "2024-04-30T23:59:59.999Z"},
	}
	for _, tc := range cases {
		t.Run(tc.month, func(t *testing.T) {
			start, end, err := MonthToUTCRange(tc.month)
			require.NoError(t, err)
			assert.Equal(t, tc.start, FormatISO(start))
			assert.Equal(t, tc.end, FormatISO(end))
		})
	}
}

func TestMonthToUTCRange_Invalid(t *testing.T) {
	for _, bad := range []string{"", "2024", "2024-13", "2024-00", "0000-05", "24-03", "2024-03-01", "abcd-ef"} {
		_, _, err := MonthToUTCRange(bad)
		assert.ErrorIs(t, err, ErrInvalidMonth, bad)
	}
}

func TestExpandMonthRange(t *testing.T) {
	months, err := ExpandMonthRange("2023-11", "2024-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, months)

	single, err := ExpandMonthRange("2024-05", "2024-05")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05"}, single)

	_, err = ExpandMonthRange("2024-05", "2024-04")
	assert.ErrorIs(t, err, ErrMonthRangeReverse)

	_, err = ExpandMonthRange("2024-05", "nope")
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestDateOnlyBoundaries(t *testing.T) {
	start, err := DateOnlyToUTCStart("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31T00:00:00.000Z", FormatISO(start))

	end, err := DateOnlyToUTCEnd("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-31T23:59:59.999Z", FormatISO(end))

	_, err = DateOnlyToUTCEnd("31/01/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestFormatISO_ConvertsToUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	ts := time.Date(2025, 3, 2, 10, 0, 0, 123_000_000, bogota)
	assert.Equal(t, "2025-03-02T15:00:00.123Z", FormatISO(ts))
}
