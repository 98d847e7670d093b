package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("plain date", func(t *testing.T) {
		d, err := ParseDate("2024-03-11")
		require.NoError(t, err)
		assert.Equal(t, "2024-03-11", d.String())
		assert.Equal(t, time.Monday, d.Weekday())
	})

	t.Run("timestamp is truncated to the day", func(t *testing.T) {
		d, err := ParseDate("2024-03-11T08:00:00Z")
		require.NoError(t, err)
		assert.True(t, d.Equal(NewDate(2024, time.March, 11)))
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDate("11/03/2024")
		assert.Error(t, err)
	})
}

func TestDateTeachingDay(t *testing.T) {
	monday := NewDate(2024, time.March, 11)
	for i, want := range TeachingDays {
		got, ok := monday.AddDays(i).TeachingDay()
		require.True(t, ok)
		assert.Equal(t, want, got)
		assert.Equal(t, i, want.Offset())
	}
	_, ok := monday.AddDays(5).TeachingDay()
	assert.False(t, ok, "saturday is not a teaching day")
}

func TestDateJSON(t *testing.T) {
	type payload struct {
		Day Date `json:"jour"`
		Opt Date `json:"opt,omitzero"`
	}
	raw, err := json.Marshal(payload{Day: NewDate(2024, time.January, 5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jour":"2024-01-05"}`, string(raw))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"jour":null,"opt":"2024-02-01"}`), &decoded))
	assert.True(t, decoded.Day.IsZero())
	assert.Equal(t, "2024-02-01", decoded.Opt.String())
}

func TestClockTime(t *testing.T) {
	t.Run("accepts seconds", func(t *testing.T) {
		c, err := ParseClockTime("08:00:00")
		require.NoError(t, err)
		assert.Equal(t, "08:00", c.String())
		assert.Equal(t, 480, c.Minutes())
	})

	t.Run("rejects out of range", func(t *testing.T) {
		for _, value := range []string{"24:00", "10:60", "10", "ab:cd"} {
			_, err := ParseClockTime(value)
			assert.Error(t, err, value)
		}
	})

	t.Run("hours until", func(t *testing.T) {
		assert.InDelta(t, 2.0, MustClockTime("08:00").HoursUntil(MustClockTime("10:00")), 1e-9)
		assert.InDelta(t, 1.5, MustClockTime("13:30").HoursUntil(MustClockTime("15:00")), 1e-9)
		assert.Less(t, MustClockTime("10:00").HoursUntil(MustClockTime("08:00")), 0.0)
	})

	t.Run("json round trip", func(t *testing.T) {
		var c ClockTime
		require.NoError(t, json.Unmarshal([]byte(`"15:45:00"`), &c))
		raw, err := json.Marshal(c)
		require.NoError(t, err)
		assert.Equal(t, `"15:45"`, string(raw))
	})
}

func TestReservationHelpers(t *testing.T) {
	r := Reservation{
		Start:  MustClockTime("08:00"),
		End:    MustClockTime("10:00"),
		Status: StatusConfirmed,
		Room:   &Room{Code: "S001"},
	}
	assert.InDelta(t, 2.0, r.DurationHours(), 1e-9)
	assert.Equal(t, "S001", r.RoomCode())
	assert.True(t, r.IsConfirmed())

	r.Room = nil
	assert.Equal(t, "", r.RoomCode())
}

func TestRoomEquipmentList(t *testing.T) {
	room := Room{Equipment: "Projecteur, Tableau blanc,, Ordinateurs "}
	assert.Equal(t, []string{"Projecteur", "Tableau blanc", "Ordinateurs"}, room.EquipmentList())
	assert.Nil(t, Room{}.EquipmentList())
}
