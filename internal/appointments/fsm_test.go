package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"telehealth-server/internal/models"
)

func TestCanTransition(t *testing.T) {
	allStatuses := []models.AppointmentStatus{
		models.StatusPending,
		models.StatusConfirmed,
		models.StatusCompleted,
		models.StatusCancelled,
		models.StatusNoShow,
	}

	allowed := map[[2]models.AppointmentStatus]bool{
		{models.StatusPending, models.StatusConfirmed}:   true,
		{models.StatusPending, models.StatusCancelled}:   true,
		{models.StatusConfirmed, models.StatusCompleted}: true,
		{models.StatusConfirmed, models.StatusCancelled}: true,
		{models.StatusConfirmed, models.StatusNoShow}:    true,
	}

	// Everything not in the allowed set must be rejected, including
	// self-transitions and anything out of a terminal status.
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			want := allowed[[2]models.AppointmentStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	assert.False(t, CanTransition("rescheduled", models.StatusConfirmed))
	assert.False(t, CanTransition(models.StatusPending, "rescheduled"))
}

func TestAllowedTransitions(t *testing.T) {
	assert.ElementsMatch(t,
		[]models.AppointmentStatus{models.StatusConfirmed, models.StatusCancelled},
		AllowedTransitions(models.StatusPending))
	assert.ElementsMatch(t,
		[]models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
		AllowedTransitions(models.StatusConfirmed))
	assert.Empty(t, AllowedTransitions(models.StatusCompleted))
	assert.Empty(t, AllowedTransitions(models.StatusCancelled))
	assert.Empty(t, AllowedTransitions(models.StatusNoShow))
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []models.AppointmentStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCompleted,
		models.StatusCancelled, models.StatusNoShow,
	} {
		assert.True(t, isValidStatus(s), string(s))
	}
	assert.False(t, isValidStatus("rescheduled"))
	assert.False(t, isValidStatus(""))
}
