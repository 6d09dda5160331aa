package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		r, err := ParseRange("18:00 - 20:30")
		assert.NoError(t, err)
		assert.Equal(t, TimeRange{Start: 18 * 60, End: 20*60 + 30}, r)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "18:00", "18:00-20:00", "18:00 - 25:00", "18:60 - 20:00", "abc - def"} {
			_, err := ParseRange(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}

func TestTimeRange_Contains(t *testing.T) {
	window := TimeRange{Start: 18 * 60, End: 20 * 60}

	assert.True(t, window.Contains(TimeRange{Start: 18 * 60, End: 19 * 60}))
	assert.True(t, window.Contains(TimeRange{Start: 18 * 60, End: 20 * 60}))
	assert.True(t, window.Contains(TimeRange{Start: 19 * 60, End: 20 * 60}))
	assert.False(t, window.Contains(TimeRange{Start: 17 * 60, End: 19 * 60}))
	assert.False(t, window.Contains(TimeRange{Start: 19 * 60, End: 21 * 60}))
}

func TestIsValidEndTime(t *testing.T) {
	tests := []struct {
		end   string
		start string
		want  bool
	}{
		// Same-evening slots.
		{"23:00", "22:00", true},
		{"10:00", "22:00", false},
		{"21:00", "22:00", false},
		// Evening start rolling into the next morning.
		{"02:00", "22:00", true},
		{"05:00", "23:00", true},
		// Early-morning start stays early-morning.
		{"04:00", "02:00", true},
		{"10:00", "02:00", false},
		{"02:00", "04:00", false},
		// Malformed input is never valid.
		{"2:0:0", "22:00", false},
		{"23:00", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.start+"->"+tt.end, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEndTime(tt.end, tt.start))
		})
	}
}
