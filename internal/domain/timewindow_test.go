package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func window(t *testing.T, start, end string) TimeWindow {
	t.Helper()
	s, err := ParseTimeOfDay(start)
	require.NoError(t, err)
	e, err := ParseTimeOfDay(end)
	require.NoError(t, err)
	return TimeWindow{Start: s, End: e}
}

func TestTimeWindowOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b [2]string
		want bool
	}{
		{"partial overlap", [2]string{"10:00", "12:00"}, [2]string{"11:00", "13:00"}, true},
		{"touching endpoints", [2]string{"10:00", "11:00"}, [2]string{"11:00", "12:00"}, false},
		{"contained", [2]string{"09:00", "18:00"}, [2]string{"10:00", "11:00"}, true},
		{"identical", [2]string{"09:00", "12:00"}, [2]string{"09:00", "12:00"}, true},
		{"disjoint", [2]string{"09:00", "12:00"}, [2]string{"13:00", "16:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := window(t, tt.a[0], tt.a[1])
			b := window(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestParseTimeOfDay(t *testing.T) {
	got, err := ParseTimeOfDay("09:30:15")
	require.NoError(t, err)
	assert.Equal(t, NewTimeOfDay(9, 30), got)
	assert.Equal(t, "09:30", got.String())

	_, err = ParseTimeOfDay("25:00")
	assert.Error(t, err)
	_, err = ParseTimeOfDay("nine")
	assert.Error(t, err)
}

func TestTimeOfDayAddHoursWraps(t *testing.T) {
	assert.Equal(t, NewTimeOfDay(1, 0), NewTimeOfDay(23, 0).AddHours(2))
	assert.Equal(t, NewTimeOfDay(12, 0), NewTimeOfDay(9, 0).AddHours(3))
}

func TestTimeWindowValidAndMinutes(t *testing.T) {
	w := window(t, "09:00", "09:30")
	assert.True(t, w.Valid())
	assert.Equal(t, int64(30), w.Minutes())
	assert.False(t, window(t, "10:00", "10:00").Valid())
	assert.False(t, window(t, "11:00", "10:00").Valid())
}
