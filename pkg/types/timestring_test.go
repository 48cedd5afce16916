package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"07:00", false},
		{"23:59", false},
		{"00:00", false},
		{"7:00", true},
		{"24:00", true},
		{"09:60", true},
		{"0900", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ts, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, ts.String())
		})
	}
}

func TestTimeString_Validate(t *testing.T) {
	assert.NoError(t, TimeString("07:00").Validate())

	// Неканоническая запись того же времени отклоняется: иначе "7:00" и
	// "07:00" были бы двумя разными строками одного слота
	assert.Error(t, TimeString("7:00").Validate())
	assert.Error(t, TimeString("9am").Validate())
}

func TestNewTimeString_DropsSeconds(t *testing.T) {
	ts := NewTimeString(time.Date(2026, 3, 2, 9, 30, 45, 0, time.UTC))
	assert.Equal(t, "09:30", ts.String())
}

func TestTimeString_Hour(t *testing.T) {
	hour, err := TimeString("11:45").Hour()
	require.NoError(t, err)
	assert.Equal(t, 11, hour)

	_, err = TimeString("bogus").Hour()
	assert.Error(t, err)
}

func TestTimeString_AddMinutes(t *testing.T) {
	shifted, err := TimeString("09:00").AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, "10:00", shifted.String())

	// Переход через полночь запрещен
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)
}

func TestTimeString_Ordering(t *testing.T) {
	assert.True(t, TimeString("07:00").IsBefore("11:00"))
	assert.True(t, TimeString("11:00").IsAfter("07:00"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.False(t, TimeString("09:00").IsAfter("09:00"))
}

func TestTimeString_IsZero(t *testing.T) {
	assert.True(t, TimeString("").IsZero())
	assert.False(t, TimeString("09:00").IsZero())
}
