package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_YieldsEightHours(t *testing.T) {
	t.Parallel()

	hours, err := Default().ScheduledHours()
	require.NoError(t, err)
	assert.Equal(t, 8.0, hours)
}

func TestScheduledHours(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		shift    Shift
		expected float64
		wantErr  bool
	}{
		{"half day no break", Shift{Entrata: "09:00", Uscita: "13:00"}, 4.0, false},
		{"break longer than shift floors at zero", Shift{Entrata: "09:00", Uscita: "09:30", PausaMinuti: 60}, 0.0, false},
		{"bad boundary", Shift{Entrata: "9am", Uscita: "18:00"}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hours, err := tt.shift.ScheduledHours()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, hours)
		})
	}
}

func TestBoundaryOn(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.January, 15, 14, 27, 9, 0, time.UTC)

	resolved, err := BoundaryOn("08:30", day)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.January, 15, 8, 30, 0, 0, time.UTC), resolved)

	_, err = BoundaryOn("25:00", day)
	assert.Error(t, err)
}
