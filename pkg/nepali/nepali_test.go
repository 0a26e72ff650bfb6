package nepali

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		ad   time.Time
		want string
	}{
		{"epoch start", date(1943, time.April, 14), "2000-01-01"},
		{"second day", date(1943, time.April, 15), "2000-01-02"},
		{"end of first month", date(1943, time.May, 13), "2000-01-30"},
		{"second month rollover", date(1943, time.May, 14), "2000-02-01"},
		{"year rollover", date(1944, time.April, 13), "2001-01-01"},
		{"new year 2072", date(2015, time.April, 14), "2072-01-01"},
		{"new year 2081", date(2024, time.April, 13), "2081-01-01"},
		{"millennium day", date(2000, time.January, 1), "2056-09-17"},
		{"mid year", date(1990, time.July, 15), "2047-03-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.ad)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvertIgnoresTimeOfDay(t *testing.T) {
	got, err := Convert(time.Date(2015, time.April, 14, 23, 59, 59, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2072-01-01", got)
}

func TestConvertOutOfRange(t *testing.T) {
	_, err := Convert(date(1943, time.April, 13))
	assert.ErrorIs(t, err, ErrOutOfRange)

	// Day after the last table entry (2090-12-30 BS).
	_, err = Convert(date(2034, time.April, 14))
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = Convert(date(1900, time.January, 1))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestFromGregorian(t *testing.T) {
	d, err := FromGregorian(date(2024, time.April, 13))
	require.NoError(t, err)
	assert.Equal(t, Date{Year: 2081, Month: 1, Day: 1}, d)
	assert.Equal(t, "2081-01-01", d.String())
}
