package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("18:00")
	require.NoError(t, err)
	assert.Equal(t, "18:00", ts.String())

	for _, raw := range []string{"", "25:00", "18:61", "6 pm", "18.00"} {
		_, err := NewTimeStringFromString(raw)
		assert.ErrorIs(t, err, ErrInvalidTimeString, "input %q", raw)
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("18:00")

	shifted, err := ts.AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("19:30"), shifted)

	// Переход через полночь
	late := TimeString("23:30")
	shifted, err = late.AddMinutes(60)
	require.NoError(t, err)
	assert.Equal(t, TimeString("00:30"), shifted)
}

func TestTimeString_IsBefore(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("18:00"))
	assert.False(t, TimeString("18:00").IsBefore("09:00"))
	assert.False(t, TimeString("18:00").IsBefore("18:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	// Postgres может вернуть TIME как time.Time
	require.NoError(t, ts.Scan(time.Date(2026, 1, 1, 18, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("18:30"), ts)

	// Либо строкой с секундами
	require.NoError(t, ts.Scan("09:15:00"))
	assert.Equal(t, TimeString("09:15"), ts)

	require.NoError(t, ts.Scan([]byte("12:00:00")))
	assert.Equal(t, TimeString("12:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("18:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "18:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("25:99").Value()
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}
