package models

import (
	"time"
)

// MedicalRecordType represents the type of medical record
type MedicalRecordType string

const (
	RecordTypeConsultation MedicalRecordType = "consultation"
	RecordTypeLabResult    MedicalRecordType = "lab-result"
	RecordTypePrescription MedicalRecordType = "prescription"
	RecordTypeImaging      MedicalRecordType = "imaging"
	RecordTypeVaccination  MedicalRecordType = "vaccination"
	RecordTypeSurgery      MedicalRecordType = "surgery"
	RecordTypeOther        MedicalRecordType = "other"
)

// MedicalRecord is an entry in a patient's history. Prescription entries are
// written automatically when a doctor prescribes on a completed appointment.
type MedicalRecord struct {
	BaseModel
	PatientID     string            `gorm:"size:36;index" json:"patientId"`
	AppointmentID string            `gorm:"size:36;index" json:"appointmentId,omitempty"`
	RecordType    MedicalRecordType `gorm:"size:50;index" json:"recordType"`
	RecordDate    time.Time         `json:"recordDate"`
	Title         string            `gorm:"size:200;not null" json:"title"`
	Description   string            `gorm:"size:2000" json:"description,omitempty"`
	Diagnosis     string            `gorm:"size:1000" json:"diagnosis,omitempty"`
	Treatment     string            `gorm:"size:1000" json:"treatment,omitempty"`
	Medications   []Medication      `gorm:"serializer:json" json:"medications,omitempty"`
	RecordedBy    string            `gorm:"size:36" json:"recordedBy"`

	// Relations
	Patient User `gorm:"foreignKey:PatientID" json:"-"`
}
