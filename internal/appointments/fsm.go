package appointments

import (
	"telehealth-server/internal/models"
)

// statusTransitions is the authoritative transition table. A pair absent from
// the table is rejected; completed, cancelled and no-show are terminal.
var statusTransitions = map[models.AppointmentStatus][]models.AppointmentStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCompleted, models.StatusCancelled, models.StatusNoShow},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
	models.StatusNoShow:    {},
}

// CanTransition reports whether the status change is in the transition table.
func CanTransition(from, to models.AppointmentStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// AllowedTransitions returns the legal next statuses for a given status.
func AllowedTransitions(from models.AppointmentStatus) []models.AppointmentStatus {
	return statusTransitions[from]
}

// isValidStatus reports whether s is a known appointment status.
func isValidStatus(s models.AppointmentStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}
