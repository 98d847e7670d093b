package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormationFilter(t *testing.T) {
	t.Run("values skip unset fields", func(t *testing.T) {
		f := FormationFilter{Level: "M1", ResponsibleID: 3}
		assert.Equal(t, "niveau=M1&responsableId=3", CanonicalQuery(f.Values()))
	})

	t.Run("duration bounds", func(t *testing.T) {
		err := FormationFilter{MinDuration: 20, MaxDuration: 10}.Validate()
		var filterErr *InvalidFilterError
		require.True(t, errors.As(err, &filterErr))
		assert.Equal(t, "dureeMax", filterErr.Field)
	})
}

func TestReservationFilter(t *testing.T) {
	from := NewDate(2024, time.March, 11)

	assert.NoError(t, ReservationFilter{Status: StatusPending, From: from, To: from.AddDays(4)}.Validate())
	assert.Error(t, ReservationFilter{Status: "DONE"}.Validate())
	assert.Error(t, ReservationFilter{From: from, To: from.AddDays(-1)}.Validate())

	values := ReservationFilter{Status: StatusConfirmed, From: from, TeacherID: 2}.Values()
	assert.Equal(t, "dateDebut=2024-03-11&enseignantId=2&statut=CONFIRMEE", CanonicalQuery(values))
}

func TestRoomAvailabilityQuery(t *testing.T) {
	day := NewDate(2024, time.March, 12)
	q := RoomAvailabilityQuery{Day: day, Start: MustClockTime("10:15"), End: MustClockTime("12:15")}
	require.NoError(t, q.Validate())
	assert.Equal(t, "date=2024-03-12&heureDebut=10%3A15&heureFin=12%3A15", CanonicalQuery(q.Values()))

	q.End = MustClockTime("10:15")
	assert.Error(t, q.Validate())
	assert.Error(t, RoomAvailabilityQuery{Start: q.Start, End: q.End}.Validate())
}

func TestEquipmentAvailabilityQuery(t *testing.T) {
	day := NewDate(2024, time.March, 12)
	assert.NoError(t, EquipmentAvailabilityQuery{From: day, To: day}.Validate())
	assert.Error(t, EquipmentAvailabilityQuery{From: day}.Validate())
	assert.Error(t, EquipmentAvailabilityQuery{From: day, To: day.AddDays(-2)}.Validate())
}

func TestCanonicalQueryIsOrderIndependent(t *testing.T) {
	a := TeacherFilter{Specialty: "Informatique", Email: "a@univ.fr"}.Values()
	b := TeacherFilter{Email: "a@univ.fr", Specialty: "Informatique"}.Values()
	assert.Equal(t, CanonicalQuery(a), CanonicalQuery(b))
	assert.Equal(t, "", CanonicalQuery(TeacherFilter{}.Values()))
}
