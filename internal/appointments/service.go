package appointments

import (
	"context"
	"math"
	"time"

	"telehealth-server/internal/models"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
	defaultDuration = 30
	minDuration     = 15
	maxDuration     = 120
	maxReasonLen    = 500
	maxNotesLen     = 1000
)

// Service is the appointment lifecycle manager. It owns the state machine,
// the booking-conflict check, the cancellation window and the doctor rating
// aggregate; persistence and identity lookups go through the collaborator
// interfaces.
type Service struct {
	store     Store
	directory Directory
	records   MedicalRecorder

	now func() time.Time // injectable clock for tests
}

// NewService creates a Service over the given collaborators.
func NewService(store Store, directory Directory, records MedicalRecorder) *Service {
	return &Service{
		store:     store,
		directory: directory,
		records:   records,
		now:       time.Now,
	}
}

// CreateInput carries a booking request.
type CreateInput struct {
	DoctorID        string
	AppointmentDate time.Time
	AppointmentTime string // "15:04"
	Duration        int    // minutes; zero means the default
	Reason          string
	Symptoms        []string
	AppointmentType models.AppointmentType
}

// CreateAppointment books a slot for the calling patient. The consultation
// fee is snapshotted from the doctor's profile at booking time.
func (s *Service) CreateAppointment(ctx context.Context, p Principal, in CreateInput) (*models.Appointment, error) {
	if p.Role != models.RolePatient {
		return nil, forbiddenf("only patients can book appointments")
	}
	if in.Reason == "" {
		return nil, invalidf("please provide a reason for the appointment")
	}
	if len(in.Reason) > maxReasonLen {
		return nil, invalidf("reason must be at most %d characters", maxReasonLen)
	}
	if _, err := time.Parse("15:04", in.AppointmentTime); err != nil {
		return nil, invalidf("appointment time must be in HH:MM format")
	}
	duration := in.Duration
	if duration == 0 {
		duration = defaultDuration
	}
	if duration < minDuration || duration > maxDuration {
		return nil, invalidf("duration must be between %d and %d minutes", minDuration, maxDuration)
	}
	apptType := in.AppointmentType
	if apptType == "" {
		apptType = models.TypeVideo
	}
	switch apptType {
	case models.TypeVideo, models.TypeChat, models.TypeInPerson:
	default:
		return nil, invalidf("unknown appointment type %q", apptType)
	}

	doctor, err := s.directory.GetDoctor(ctx, in.DoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsVerified {
		return nil, notFoundf("doctor not found or not available")
	}

	appt := &models.Appointment{
		PatientID:       p.ID,
		DoctorID:        in.DoctorID,
		AppointmentDate: in.AppointmentDate,
		AppointmentTime: in.AppointmentTime,
		Duration:        duration,
		Status:          models.StatusPending,
		AppointmentType: apptType,
		Reason:          in.Reason,
		Symptoms:        in.Symptoms,
		Payment: models.Payment{
			Amount: doctor.ConsultationFee,
			Status: models.PaymentPending,
		},
	}
	if appt.ScheduledAt().Before(s.now()) {
		return nil, invalidf("cannot book appointments in the past")
	}

	// Read-then-write: not protected against concurrent bookings of the
	// same slot. Strict exclusivity needs a store-level uniqueness
	// constraint on (doctor, date, time) over non-terminal statuses.
	taken, err := s.store.CountActiveAt(ctx, in.DoctorID, in.AppointmentDate, in.AppointmentTime)
	if err != nil {
		return nil, err
	}
	if taken > 0 {
		return nil, conflictf("this time slot is already booked, please choose another time")
	}

	if err := s.store.Create(ctx, appt); err != nil {
		return nil, err
	}
	// Reload to denormalize the participants for display.
	created, err := s.store.Get(ctx, appt.ID)
	if err != nil || created == nil {
		return appt, nil
	}
	return created, nil
}

// ListOptions narrows ListAppointments.
type ListOptions struct {
	Status   models.AppointmentStatus
	Upcoming bool
	Past     bool
	Page     int
	PageSize int
}

// AppointmentPage is one page of a listing.
type AppointmentPage struct {
	Appointments []models.Appointment `json:"appointments"`
	Total        int64                `json:"total"`
	TotalPages   int                  `json:"totalPages"`
	Page         int                  `json:"currentPage"`
}

// ListAppointments returns the principal's appointments, newest first
// (date descending, then time descending). Patients see their own, doctors
// theirs; any other role is rejected.
func (s *Service) ListAppointments(ctx context.Context, p Principal, opts ListOptions) (*AppointmentPage, error) {
	f := ListFilter{
		Status:   opts.Status,
		Upcoming: opts.Upcoming,
		Past:     opts.Past,
		Now:      s.now(),
	}
	switch p.Role {
	case models.RolePatient:
		f.PatientID = p.ID
	case models.RoleDoctor:
		f.DoctorID = p.ID
	default:
		return nil, forbiddenf("role %q cannot list appointments", p.Role)
	}
	f.Page, f.PageSize = normalizePage(opts.Page, opts.PageSize)

	appts, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &AppointmentPage{
		Appointments: appts,
		Total:        total,
		TotalPages:   pageCount(total, f.PageSize),
		Page:         f.Page,
	}, nil
}

// GetAppointment fetches one appointment. Only the participants and admins
// may read it.
func (s *Service) GetAppointment(ctx context.Context, p Principal, id string) (*models.Appointment, error) {
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.owns(appt) {
		return nil, forbiddenf("you are not authorized to view this appointment")
	}
	return appt, nil
}

// UpdateStatus moves the appointment through the state machine. Only the
// assigned doctor or an admin may drive transitions; the transition table is
// the single authority on which moves are legal.
func (s *Service) UpdateStatus(ctx context.Context, p Principal, id string, newStatus models.AppointmentStatus, notes string) (*models.Appointment, error) {
	if !isValidStatus(newStatus) {
		return nil, invalidf("unknown status %q", newStatus)
	}
	if len(notes) > maxNotesLen {
		return nil, invalidf("notes must be at most %d characters", maxNotesLen)
	}
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsAdmin() && !(p.Role == models.RoleDoctor && p.ID == appt.DoctorID) {
		return nil, forbiddenf("only the assigned doctor can update the appointment status")
	}
	if !CanTransition(appt.Status, newStatus) {
		return nil, invalidTransitionf("cannot change status from %s to %s", appt.Status, newStatus)
	}

	appt.Status = newStatus
	if notes != "" {
		appt.Notes = notes
	}
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// CancelAppointment cancels a pending or confirmed appointment more than 24
// hours before its scheduled time. Either participant or an admin may cancel.
func (s *Service) CancelAppointment(ctx context.Context, p Principal, id, reason string) (*models.Appointment, error) {
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.owns(appt) {
		return nil, forbiddenf("you are not authorized to cancel this appointment")
	}
	now := s.now()
	if !appt.CanBeCancelled(now) {
		return nil, invalidf("cannot cancel an appointment less than 24 hours before its scheduled time")
	}

	appt.Status = models.StatusCancelled
	appt.CancelledBy = p.ID
	appt.CancellationReason = reason
	appt.CancelledAt = &now
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// PrescriptionInput carries a doctor-authored prescription.
type PrescriptionInput struct {
	Medications     []models.Medication
	Diagnosis       string
	AdditionalNotes string
}

// AddPrescription attaches a prescription to a completed appointment and
// emits a prescription entry into the patient's medical history. Prescribing
// again overwrites the previous prescription and emits a new entry.
func (s *Service) AddPrescription(ctx context.Context, p Principal, id string, in PrescriptionInput) (*models.Appointment, error) {
	if len(in.Medications) == 0 {
		return nil, invalidf("prescription must include at least one medication")
	}
	for _, m := range in.Medications {
		if m.Name == "" || m.Dosage == "" || m.Frequency == "" || m.Duration == "" {
			return nil, invalidf("each medication needs a name, dosage, frequency and duration")
		}
	}
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleDoctor || p.ID != appt.DoctorID {
		return nil, forbiddenf("only the assigned doctor can add a prescription")
	}
	if appt.Status != models.StatusCompleted {
		return nil, invalidf("can only add a prescription to completed appointments")
	}

	now := s.now()
	appt.Prescription = models.Prescription{
		Medications:     in.Medications,
		Diagnosis:       in.Diagnosis,
		AdditionalNotes: in.AdditionalNotes,
		PrescribedBy:    p.ID,
		PrescribedAt:    &now,
	}
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}

	// The history entry is a second, non-atomic write; on failure the
	// prescription is saved but the history misses the event.
	err = s.records.RecordPrescriptionEvent(ctx, PrescriptionEvent{
		PatientID:     appt.PatientID,
		AppointmentID: appt.ID,
		Diagnosis:     in.Diagnosis,
		Medications:   in.Medications,
		AuthoredBy:    p.ID,
		When:          now,
	})
	if err != nil {
		return nil, err
	}
	return appt, nil
}

// AddVitalSigns replaces the appointment's vitals wholesale, stamped with the
// current time. The assigned doctor may record vitals at any point in the
// appointment's life.
func (s *Service) AddVitalSigns(ctx context.Context, p Principal, id string, vitals models.VitalSigns) (*models.Appointment, error) {
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Role != models.RoleDoctor || p.ID != appt.DoctorID {
		return nil, forbiddenf("only the assigned doctor can record vital signs")
	}

	now := s.now()
	vitals.RecordedAt = &now
	appt.VitalSigns = vitals
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// RateAppointment records the patient's one-time rating of a completed
// appointment, then recomputes the doctor's aggregate from scratch over all
// completed, scored appointments so the aggregate always matches the data.
func (s *Service) RateAppointment(ctx context.Context, p Principal, id string, score int, comment string) (*models.Appointment, error) {
	if score < 1 || score > 5 {
		return nil, invalidf("rating score must be between 1 and 5")
	}
	appt, err := s.fetch(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.ID != appt.PatientID {
		return nil, forbiddenf("only the patient can rate the appointment")
	}
	if appt.Status != models.StatusCompleted {
		return nil, invalidf("can only rate completed appointments")
	}
	if appt.IsRated() {
		return nil, conflictf("appointment already rated")
	}

	now := s.now()
	appt.Rating = models.Rating{Score: score, Comment: comment, RatedAt: &now}
	if err := s.store.Save(ctx, appt); err != nil {
		return nil, err
	}

	scores, err := s.store.CompletedScores(ctx, appt.DoctorID)
	if err != nil {
		return nil, err
	}
	var sum int
	for _, sc := range scores {
		sum += sc
	}
	var rating float64
	if len(scores) > 0 {
		rating = math.Round(float64(sum)/float64(len(scores))*100) / 100
	}
	if err := s.directory.UpdateDoctorAggregate(ctx, appt.DoctorID, rating, len(scores)); err != nil {
		return nil, err
	}
	return appt, nil
}

// GetStats returns the principal's status breakdown plus upcoming and
// completed counts, scoped like ListAppointments.
func (s *Service) GetStats(ctx context.Context, p Principal) (*Stats, error) {
	f := ListFilter{Now: s.now()}
	switch p.Role {
	case models.RolePatient:
		f.PatientID = p.ID
	case models.RoleDoctor:
		f.DoctorID = p.ID
	default:
		return nil, forbiddenf("role %q has no appointment statistics", p.Role)
	}
	return s.store.Stats(ctx, f)
}

// DoctorPage is one page of the doctor directory.
type DoctorPage struct {
	Doctors    []models.DoctorPublic `json:"doctors"`
	Total      int64                 `json:"total"`
	TotalPages int                   `json:"totalPages"`
	Page       int                   `json:"currentPage"`
}

// ListDoctors browses verified, active doctors, best rated first (then most
// experienced).
func (s *Service) ListDoctors(ctx context.Context, f DoctorFilter) (*DoctorPage, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	doctors, total, err := s.directory.ListDoctors(ctx, f)
	if err != nil {
		return nil, err
	}
	public := make([]models.DoctorPublic, len(doctors))
	for i := range doctors {
		public[i] = doctors[i].PublicDoctor()
	}
	return &DoctorPage{
		Doctors:    public,
		Total:      total,
		TotalPages: pageCount(total, f.PageSize),
		Page:       f.Page,
	}, nil
}

// DoctorDetail is a doctor profile plus the already-booked upcoming slots,
// so callers can grey out unavailable times.
type DoctorDetail struct {
	Doctor      models.DoctorPublic `json:"doctor"`
	BookedSlots []Slot              `json:"upcomingAppointments"`
}

// GetDoctor fetches one doctor's public profile with upcoming booked slots.
func (s *Service) GetDoctor(ctx context.Context, id string) (*DoctorDetail, error) {
	doctor, err := s.directory.GetDoctor(ctx, id)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, notFoundf("doctor not found")
	}
	slots, err := s.store.ActiveSlotsFrom(ctx, id, s.now())
	if err != nil {
		return nil, err
	}
	return &DoctorDetail{Doctor: doctor.PublicDoctor(), BookedSlots: slots}, nil
}

// ListSpecializations returns the distinct specializations of eligible
// doctors, sorted.
func (s *Service) ListSpecializations(ctx context.Context) ([]string, error) {
	return s.directory.Specializations(ctx)
}

// fetch loads an appointment and maps a missing record to a typed NotFound.
func (s *Service) fetch(ctx context.Context, id string) (*models.Appointment, error) {
	appt, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt == nil {
		return nil, notFoundf("appointment not found")
	}
	return appt, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func pageCount(total int64, pageSize int) int {
	return int(math.Ceil(float64(total) / float64(pageSize)))
}
