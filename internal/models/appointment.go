package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// IsTerminal reports whether the status has no outgoing transitions.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// AppointmentType represents how the consultation takes place
type AppointmentType string

const (
	TypeVideo    AppointmentType = "video"
	TypeChat     AppointmentType = "chat"
	TypeInPerson AppointmentType = "in-person"
)

// PaymentStatus represents the state of the consultation payment
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Medication is a single prescribed medication
type Medication struct {
	Name         string `json:"name"`
	Dosage       string `json:"dosage"`
	Frequency    string `json:"frequency"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions,omitempty"`
}

// Prescription is authored by the doctor once the appointment is completed
type Prescription struct {
	Medications     []Medication `gorm:"serializer:json" json:"medications,omitempty"`
	Diagnosis       string       `gorm:"size:1000" json:"diagnosis,omitempty"`
	AdditionalNotes string       `gorm:"type:text" json:"additionalNotes,omitempty"`
	PrescribedBy    string       `gorm:"size:36" json:"prescribedBy,omitempty"`
	PrescribedAt    *time.Time   `json:"prescribedAt,omitempty"`
}

// VitalSigns recorded by the doctor during the appointment
type VitalSigns struct {
	BloodPressure string     `gorm:"size:20" json:"bloodPressure,omitempty"` // e.g. "120/80"
	HeartRate     float64    `json:"heartRate,omitempty"`
	Temperature   float64    `json:"temperature,omitempty"`
	Weight        float64    `json:"weight,omitempty"` // kg
	Height        float64    `json:"height,omitempty"` // cm
	OxygenLevel   float64    `json:"oxygenLevel,omitempty"`
	RecordedAt    *time.Time `json:"recordedAt,omitempty"`
}

// Payment holds the consultation fee snapshot taken at booking time
type Payment struct {
	Amount        float64       `json:"amount"`
	Status        PaymentStatus `gorm:"size:20;default:'pending'" json:"status"`
	PaymentMethod string        `gorm:"size:20" json:"paymentMethod,omitempty"`
	TransactionID string        `gorm:"size:100" json:"transactionId,omitempty"`
	PaidAt        *time.Time    `json:"paidAt,omitempty"`
}

// Rating is the patient's one-time review of a completed appointment
type Rating struct {
	Score   int        `json:"score,omitempty"` // 1-5, zero means unrated
	Comment string     `gorm:"size:500" json:"comment,omitempty"`
	RatedAt *time.Time `json:"ratedAt,omitempty"`
}

// Appointment represents a scheduled consultation between a patient and a doctor
type Appointment struct {
	BaseModel
	PatientID string `gorm:"size:36;index:idx_patient_date,priority:1" json:"patientId"`
	DoctorID  string `gorm:"size:36;index:idx_doctor_slot,priority:1;index:idx_doctor_date,priority:1" json:"doctorId"`

	AppointmentDate time.Time         `gorm:"index:idx_doctor_slot,priority:2;index:idx_doctor_date,priority:2;index:idx_patient_date,priority:2" json:"appointmentDate"`
	AppointmentTime string            `gorm:"size:5;index:idx_doctor_slot,priority:3" json:"appointmentTime"` // "15:04"
	Duration        int               `gorm:"default:30" json:"duration"`                                     // minutes, 15-120
	Status          AppointmentStatus `gorm:"size:20;default:'pending';index" json:"status"`
	AppointmentType AppointmentType   `gorm:"size:20;default:'video'" json:"appointmentType"`

	Reason   string   `gorm:"size:500" json:"reason"`
	Symptoms []string `gorm:"serializer:json" json:"symptoms,omitempty"`
	Notes    string   `gorm:"size:1000" json:"notes,omitempty"`

	Prescription Prescription `gorm:"embedded;embeddedPrefix:prescription_" json:"prescription"`
	VitalSigns   VitalSigns   `gorm:"embedded;embeddedPrefix:vital_" json:"vitalSigns"`
	Payment      Payment      `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Rating       Rating       `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`

	CancelledBy        string     `gorm:"size:36" json:"cancelledBy,omitempty"`
	CancellationReason string     `gorm:"size:500" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitzero"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitzero"`
}

// ScheduledAt combines the appointment date with the "HH:MM" time-of-day.
// A malformed time-of-day falls back to the bare date.
func (a *Appointment) ScheduledAt() time.Time {
	clock, err := time.Parse("15:04", a.AppointmentTime)
	if err != nil {
		return a.AppointmentDate
	}
	d := a.AppointmentDate
	return time.Date(d.Year(), d.Month(), d.Day(), clock.Hour(), clock.Minute(), 0, 0, d.Location())
}

// CanBeCancelled reports whether the appointment is still inside the
// cancellation window: pending or confirmed, and more than 24 hours away.
func (a *Appointment) CanBeCancelled(now time.Time) bool {
	if a.Status != StatusPending && a.Status != StatusConfirmed {
		return false
	}
	return a.ScheduledAt().Sub(now) > 24*time.Hour
}

// IsRated reports whether the patient has already scored the appointment.
func (a *Appointment) IsRated() bool {
	return a.Rating.Score != 0
}

// HasPrescription reports whether a prescription has been attached.
func (a *Appointment) HasPrescription() bool {
	return a.Prescription.PrescribedAt != nil
}

// BMI derives body mass index from the recorded vitals, or 0 when either
// weight or height is missing.
func (v VitalSigns) BMI() float64 {
	if v.Weight <= 0 || v.Height <= 0 {
		return 0
	}
	m := v.Height / 100
	return v.Weight / (m * m)
}
