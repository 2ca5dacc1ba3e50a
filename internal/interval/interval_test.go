package interval

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestNew(t *testing.T) {
	iv, err := New(at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, time.Hour, iv.Duration())

	_, err = New(at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = New(at(10, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval, "empty interval must be rejected")
}

func TestOverlaps(t *testing.T) {
	base := Interval{Start: at(10, 0), End: at(12, 0)}

	tests := []struct {
		name  string
		other Interval
		want  bool
	}{
		{"identical", base, true},
		{"starts inside", Interval{at(11, 0), at(13, 0)}, true},
		{"ends inside", Interval{at(9, 0), at(11, 0)}, true},
		{"contains", Interval{at(9, 0), at(13, 0)}, true},
		{"contained", Interval{at(10, 30), at(11, 30)}, true},
		{"touches end", Interval{at(12, 0), at(13, 0)}, false},
		{"touches start", Interval{at(8, 0), at(10, 0)}, false},
		{"before", Interval{at(7, 0), at(8, 0)}, false},
		{"after", Interval{at(13, 0), at(14, 0)}, false},
		{"one minute overlap", Interval{at(11, 59), at(13, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(base, tt.other))
			assert.Equal(t, tt.want, Overlaps(tt.other, base), "overlap must be symmetric")
		})
	}
}

func TestOverlapsReflexive(t *testing.T) {
	for h := 0; h < 23; h++ {
		iv := Interval{Start: at(h, 0), End: at(h, 15)}
		assert.True(t, iv.Overlaps(iv))
	}
}

func TestDay(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Taipei")
	require.NoError(t, err)

	// 2026-03-02 20:00 UTC is 2026-03-03 04:00 in Taipei.
	day := Day(time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC), loc)
	assert.Equal(t, 3, day.Start.Day())
	assert.Equal(t, 24*time.Hour, day.Duration())
	assert.True(t, day.Contains(time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)))
	assert.False(t, day.Contains(time.Date(2026, 3, 3, 16, 0, 0, 0, time.UTC)))
}
