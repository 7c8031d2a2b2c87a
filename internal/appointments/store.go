package appointments

import (
	"context"
	"time"

	"telehealth-server/internal/models"
)

// ListFilter narrows an appointment listing. Exactly one of PatientID or
// DoctorID is set by the service, derived from the principal.
type ListFilter struct {
	PatientID string
	DoctorID  string
	Status    models.AppointmentStatus
	Upcoming  bool // date >= now and status pending/confirmed
	Past      bool // date < now or terminal status
	Now       time.Time
	Page      int
	PageSize  int
}

// Slot identifies one bookable appointment window for a doctor.
type Slot struct {
	Date time.Time `json:"appointmentDate"`
	Time string    `json:"appointmentTime"`
}

// Stats is the status breakdown returned by GetStats.
type Stats struct {
	ByStatus  map[models.AppointmentStatus]int64 `json:"stats"`
	Upcoming  int64                              `json:"upcoming"`
	Completed int64                              `json:"completed"`
}

// Store is the appointment persistence collaborator. Implementations must
// keep single-record writes atomic; no cross-record transaction is assumed.
type Store interface {
	Create(ctx context.Context, a *models.Appointment) error
	// Get returns the appointment with participants preloaded, or
	// (nil, nil) when no record exists.
	Get(ctx context.Context, id string) (*models.Appointment, error)
	Save(ctx context.Context, a *models.Appointment) error
	List(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error)
	// CountActiveAt counts pending/confirmed appointments occupying the
	// (doctor, date, time) slot.
	CountActiveAt(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (int64, error)
	// ActiveSlotsFrom lists the booked slots of a doctor from a point in
	// time, for availability display.
	ActiveSlotsFrom(ctx context.Context, doctorID string, from time.Time) ([]Slot, error)
	// CompletedScores returns the rating scores of the doctor's completed,
	// scored appointments.
	CompletedScores(ctx context.Context, doctorID string) ([]int, error)
	Stats(ctx context.Context, f ListFilter) (*Stats, error)
}

// DoctorFilter narrows the doctor directory listing. Only verified, active
// doctors are ever returned.
type DoctorFilter struct {
	Specialization string
	MinExperience  int
	MaxFee         float64
	MinRating      float64
	Search         string // case-insensitive substring over username, specialization, bio
	Page           int
	PageSize       int
}

// Directory resolves doctor identity and profile data, and accepts the
// rating aggregate write-back.
type Directory interface {
	// GetDoctor returns (nil, nil) when the id does not resolve to a doctor.
	GetDoctor(ctx context.Context, id string) (*models.User, error)
	ListDoctors(ctx context.Context, f DoctorFilter) ([]models.User, int64, error)
	Specializations(ctx context.Context) ([]string, error)
	UpdateDoctorAggregate(ctx context.Context, id string, rating float64, totalReviews int) error
}

// PrescriptionEvent summarizes a prescription for the patient's history.
type PrescriptionEvent struct {
	PatientID     string
	AppointmentID string
	Diagnosis     string
	Medications   []models.Medication
	AuthoredBy    string
	When          time.Time
}

// MedicalRecorder is the medical-records collaborator; the lifecycle manager
// only ever writes prescription events to it.
type MedicalRecorder interface {
	RecordPrescriptionEvent(ctx context.Context, ev PrescriptionEvent) error
}
