// Package appointments implements the appointment lifecycle: booking with
// slot-conflict detection, the status state machine, the cancellation window,
// doctor-authored clinical data and the patient rating flow with its doctor
// aggregate.
package appointments

import (
	"telehealth-server/internal/models"
)

// Principal is the authenticated actor an operation runs on behalf of.
// The role set is closed: patient, doctor, admin. Operations switch on the
// role exhaustively and reject anything else.
type Principal struct {
	ID   string
	Role models.Role
}

// Patient builds a patient principal.
func Patient(id string) Principal { return Principal{ID: id, Role: models.RolePatient} }

// Doctor builds a doctor principal.
func Doctor(id string) Principal { return Principal{ID: id, Role: models.RoleDoctor} }

// Admin builds an admin principal.
func Admin(id string) Principal { return Principal{ID: id, Role: models.RoleAdmin} }

// IsAdmin reports whether the principal holds the administrative capability.
func (p Principal) IsAdmin() bool { return p.Role == models.RoleAdmin }

// owns reports whether the principal is one of the appointment's participants
// or an admin.
func (p Principal) owns(a *models.Appointment) bool {
	return p.IsAdmin() || p.ID == a.PatientID || p.ID == a.DoctorID
}
