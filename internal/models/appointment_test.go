package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusIsTerminal(t *testing.T) {
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.True(t, StatusNoShow.IsTerminal())
}

func TestScheduledAt(t *testing.T) {
	date := time.Date(2026, time.March, 17, 0, 0, 0, 0, time.UTC)

	a := &Appointment{AppointmentDate: date, AppointmentTime: "14:30"}
	assert.Equal(t, time.Date(2026, time.March, 17, 14, 30, 0, 0, time.UTC), a.ScheduledAt())

	// a malformed time-of-day falls back to the bare date
	a.AppointmentTime = "2pm"
	assert.Equal(t, date, a.ScheduledAt())
}

func TestCanBeCancelled(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	at := func(status AppointmentStatus, scheduled time.Time) *Appointment {
		return &Appointment{
			Status:          status,
			AppointmentDate: scheduled.Truncate(24 * time.Hour),
			AppointmentTime: scheduled.Format("15:04"),
		}
	}

	// more than 24h out, pending or confirmed
	assert.True(t, at(StatusPending, now.Add(25*time.Hour)).CanBeCancelled(now))
	assert.True(t, at(StatusConfirmed, now.Add(48*time.Hour)).CanBeCancelled(now))

	// exactly 24h is no longer cancellable, nor is anything closer
	assert.False(t, at(StatusPending, now.Add(24*time.Hour)).CanBeCancelled(now))
	assert.False(t, at(StatusConfirmed, now.Add(2*time.Hour)).CanBeCancelled(now))

	// terminal statuses never are, no matter how far out
	assert.False(t, at(StatusCompleted, now.Add(72*time.Hour)).CanBeCancelled(now))
	assert.False(t, at(StatusCancelled, now.Add(72*time.Hour)).CanBeCancelled(now))
	assert.False(t, at(StatusNoShow, now.Add(72*time.Hour)).CanBeCancelled(now))
}

func TestIsRatedAndHasPrescription(t *testing.T) {
	a := &Appointment{}
	assert.False(t, a.IsRated())
	assert.False(t, a.HasPrescription())

	now := time.Now()
	a.Rating = Rating{Score: 4, RatedAt: &now}
	a.Prescription = Prescription{PrescribedAt: &now}
	assert.True(t, a.IsRated())
	assert.True(t, a.HasPrescription())
}

func TestVitalSignsBMI(t *testing.T) {
	v := VitalSigns{Weight: 80, Height: 180}
	assert.InDelta(t, 24.69, v.BMI(), 0.01)

	assert.Zero(t, VitalSigns{Weight: 80}.BMI())
	assert.Zero(t, VitalSigns{Height: 180}.BMI())
	assert.Zero(t, VitalSigns{}.BMI())
}

func TestUserPasswordRoundTrip(t *testing.T) {
	u := &User{}
	assert.NoError(t, u.SetPassword("s3cret-passphrase"))
	assert.NotEqual(t, "s3cret-passphrase", u.Password)
	assert.True(t, u.CheckPassword("s3cret-passphrase"))
	assert.False(t, u.CheckPassword("wrong"))
}
