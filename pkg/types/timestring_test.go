package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeString_Validate(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, s := range valid {
		assert.NoError(t, TimeString(s).Validate(), s)
	}

	invalid := []string{"", "24:00", "9:30:00", "09-30", "abc", "09:60"}
	for _, s := range invalid {
		assert.Error(t, TimeString(s).Validate(), s)
	}
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("10:00")
	assert.NoError(t, err)
	assert.Equal(t, TimeString("10:00"), ts)

	_, err = NewTimeStringFromString("25:00")
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeString_HourMinute(t *testing.T) {
	ts := TimeString("18:45")
	assert.Equal(t, 18, ts.Hour())
	assert.Equal(t, 45, ts.Minute())
}

func TestTimeString_IsBefore(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("09:01"))
	assert.False(t, TimeString("09:00").IsBefore("09:00"))
	assert.False(t, TimeString("23:00").IsBefore("09:00"))
	assert.True(t, TimeString("23:00").IsAfter("09:00"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts, err := TimeString("10:00").AddMinutes(90)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("11:30"), ts)

	// Ровно до полуночи допустимо
	ts, err = TimeString("23:00").AddMinutes(60)
	assert.NoError(t, err)
	assert.Equal(t, TimeString("00:00"), ts)

	// Переход через полночь запрещен
	_, err = TimeString("23:30").AddMinutes(60)
	assert.Error(t, err)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	assert.NoError(t, ts.Scan("14:30:00"))
	assert.Equal(t, TimeString("14:30"), ts)

	assert.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	assert.NoError(t, ts.Scan(time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("12:05"), ts)

	assert.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00").Value()
	assert.NoError(t, err)
	assert.Equal(t, "10:00", v)

	v, err = TimeString("").Value()
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = TimeString("bad").Value()
	assert.Error(t, err)
}
