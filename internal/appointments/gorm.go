package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"telehealth-server/internal/models"
)

var activeStatuses = []models.AppointmentStatus{models.StatusPending, models.StatusConfirmed}

var terminalStatuses = []models.AppointmentStatus{models.StatusCompleted, models.StatusCancelled, models.StatusNoShow}

// GormStore is the MySQL-backed appointment store.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Create(ctx context.Context, a *models.Appointment) error {
	return s.DB.WithContext(ctx).Create(a).Error
}

func (s *GormStore) Get(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := s.DB.WithContext(ctx).
		Preload("Patient").Preload("Doctor").
		First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appt, nil
}

func (s *GormStore) Save(ctx context.Context, a *models.Appointment) error {
	return s.DB.WithContext(ctx).Save(a).Error
}

func (s *GormStore) List(ctx context.Context, f ListFilter) ([]models.Appointment, int64, error) {
	query := s.scoped(ctx, f)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var appts []models.Appointment
	err := query.
		Preload("Patient").Preload("Doctor").
		Order("appointment_date DESC, appointment_time DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&appts).Error
	if err != nil {
		return nil, 0, err
	}
	return appts, total, nil
}

func (s *GormStore) CountActiveAt(ctx context.Context, doctorID string, date time.Time, timeOfDay string) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND appointment_date = ? AND appointment_time = ? AND status IN ?",
			doctorID, date, timeOfDay, activeStatuses).
		Count(&count).Error
	return count, err
}

func (s *GormStore) ActiveSlotsFrom(ctx context.Context, doctorID string, from time.Time) ([]Slot, error) {
	var appts []models.Appointment
	err := s.DB.WithContext(ctx).
		Select("appointment_date", "appointment_time").
		Where("doctor_id = ? AND status IN ? AND appointment_date >= ?", doctorID, activeStatuses, from).
		Order("appointment_date ASC, appointment_time ASC").
		Find(&appts).Error
	if err != nil {
		return nil, err
	}
	slots := make([]Slot, len(appts))
	for i, a := range appts {
		slots[i] = Slot{Date: a.AppointmentDate, Time: a.AppointmentTime}
	}
	return slots, nil
}

func (s *GormStore) CompletedScores(ctx context.Context, doctorID string) ([]int, error) {
	var scores []int
	err := s.DB.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status = ? AND rating_score >= 1", doctorID, models.StatusCompleted).
		Pluck("rating_score", &scores).Error
	return scores, err
}

func (s *GormStore) Stats(ctx context.Context, f ListFilter) (*Stats, error) {
	type statusCount struct {
		Status models.AppointmentStatus
		Count  int64
	}
	var rows []statusCount
	err := s.scoped(ctx, f).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := &Stats{ByStatus: make(map[models.AppointmentStatus]int64, len(rows))}
	for _, r := range rows {
		stats.ByStatus[r.Status] = r.Count
	}
	stats.Completed = stats.ByStatus[models.StatusCompleted]

	err = s.scoped(ctx, f).
		Where("appointment_date >= ? AND status IN ?", f.Now, activeStatuses).
		Count(&stats.Upcoming).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// scoped builds the owner/status/time filters shared by List and Stats.
func (s *GormStore) scoped(ctx context.Context, f ListFilter) *gorm.DB {
	query := s.DB.WithContext(ctx).Model(&models.Appointment{})
	if f.PatientID != "" {
		query = query.Where("patient_id = ?", f.PatientID)
	}
	if f.DoctorID != "" {
		query = query.Where("doctor_id = ?", f.DoctorID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Upcoming {
		query = query.Where("appointment_date >= ? AND status IN ?", f.Now, activeStatuses)
	}
	if f.Past {
		query = query.Where("appointment_date < ? OR status IN ?", f.Now, terminalStatuses)
	}
	return query
}

// GormDirectory is the user-table-backed doctor directory.
type GormDirectory struct {
	DB *gorm.DB
}

// NewGormDirectory creates a GormDirectory.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{DB: db}
}

func (d *GormDirectory) GetDoctor(ctx context.Context, id string) (*models.User, error) {
	var doctor models.User
	err := d.DB.WithContext(ctx).
		First(&doctor, "id = ? AND role = ?", id, models.RoleDoctor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (d *GormDirectory) ListDoctors(ctx context.Context, f DoctorFilter) ([]models.User, int64, error) {
	query := d.eligible(ctx)
	if f.Specialization != "" {
		query = query.Where("specialization = ?", f.Specialization)
	}
	if f.MinExperience > 0 {
		query = query.Where("experience >= ?", f.MinExperience)
	}
	if f.MaxFee > 0 {
		query = query.Where("consultation_fee <= ?", f.MaxFee)
	}
	if f.MinRating > 0 {
		query = query.Where("doctor_rating >= ?", f.MinRating)
	}
	if f.Search != "" {
		needle := "%" + f.Search + "%"
		query = query.Where(
			"LOWER(username) LIKE LOWER(?) OR LOWER(specialization) LIKE LOWER(?) OR LOWER(bio) LIKE LOWER(?)",
			needle, needle, needle)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var doctors []models.User
	err := query.
		Order("doctor_rating DESC, experience DESC").
		Offset((f.Page - 1) * f.PageSize).
		Limit(f.PageSize).
		Find(&doctors).Error
	if err != nil {
		return nil, 0, err
	}
	return doctors, total, nil
}

func (d *GormDirectory) Specializations(ctx context.Context) ([]string, error) {
	var specializations []string
	err := d.eligible(ctx).
		Where("specialization <> ''").
		Distinct().
		Order("specialization ASC").
		Pluck("specialization", &specializations).Error
	return specializations, err
}

func (d *GormDirectory) UpdateDoctorAggregate(ctx context.Context, id string, rating float64, totalReviews int) error {
	return d.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		Updates(map[string]any{
			"doctor_rating": rating,
			"total_reviews": totalReviews,
		}).Error
}

func (d *GormDirectory) eligible(ctx context.Context) *gorm.DB {
	return d.DB.WithContext(ctx).Model(&models.User{}).
		Where("role = ? AND is_verified = ? AND is_active = ?", models.RoleDoctor, true, true)
}

// GormMedicalRecorder writes prescription events into the medical records
// table.
type GormMedicalRecorder struct {
	DB *gorm.DB
}

// NewGormMedicalRecorder creates a GormMedicalRecorder.
func NewGormMedicalRecorder(db *gorm.DB) *GormMedicalRecorder {
	return &GormMedicalRecorder{DB: db}
}

func (r *GormMedicalRecorder) RecordPrescriptionEvent(ctx context.Context, ev PrescriptionEvent) error {
	record := models.MedicalRecord{
		PatientID:     ev.PatientID,
		AppointmentID: ev.AppointmentID,
		RecordType:    models.RecordTypePrescription,
		RecordDate:    ev.When,
		Title:         fmt.Sprintf("Prescription - %s", ev.When.Format("2006-01-02")),
		Description:   ev.Diagnosis,
		Diagnosis:     ev.Diagnosis,
		Medications:   ev.Medications,
		RecordedBy:    ev.AuthoredBy,
	}
	return r.DB.WithContext(ctx).Create(&record).Error
}
