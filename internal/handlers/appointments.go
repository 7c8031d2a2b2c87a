package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"telehealth-server/internal/appointments"
	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/utils"
)

// AppointmentHandler exposes the appointment lifecycle over HTTP.
type AppointmentHandler struct {
	Service *appointments.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(service *appointments.Service) *AppointmentHandler {
	return &AppointmentHandler{Service: service}
}

// respondDomainError maps a typed lifecycle error to the matching HTTP
// response; anything untyped is a store failure surfaced as 500.
func respondDomainError(c *gin.Context, err error) {
	var derr *appointments.Error
	if !errors.As(err, &derr) {
		utils.InternalServerError(c, "Something went wrong, please try again later")
		return
	}
	switch derr.Kind {
	case appointments.KindNotFound:
		utils.NotFound(c, derr.Message)
	case appointments.KindForbidden:
		utils.Forbidden(c, derr.Message)
	case appointments.KindInvalidArgument, appointments.KindInvalidTransition:
		utils.BadRequest(c, derr.Message)
	case appointments.KindConflict:
		utils.Conflict(c, derr.Message)
	default:
		utils.InternalServerError(c, derr.Message)
	}
}

// CreateAppointmentRequest represents the request body for booking a slot.
type CreateAppointmentRequest struct {
	DoctorID        string   `json:"doctorId" binding:"required,uuid"`
	AppointmentDate string   `json:"appointmentDate" binding:"required"` // "2006-01-02"
	AppointmentTime string   `json:"appointmentTime" binding:"required"` // "15:04"
	Duration        int      `json:"duration"`
	Reason          string   `json:"reason" binding:"required,max=500"`
	Symptoms        []string `json:"symptoms"`
	AppointmentType string   `json:"appointmentType" binding:"omitempty,oneof=video chat in-person"`
}

// CreateAppointment handles booking a new appointment (patient only).
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	date, err := time.ParseInLocation("2006-01-02", req.AppointmentDate, time.Local)
	if err != nil {
		utils.BadRequest(c, "Appointment date must be in YYYY-MM-DD format")
		return
	}

	appt, err := h.Service.CreateAppointment(c.Request.Context(), principal, appointments.CreateInput{
		DoctorID:        req.DoctorID,
		AppointmentDate: date,
		AppointmentTime: req.AppointmentTime,
		Duration:        req.Duration,
		Reason:          req.Reason,
		Symptoms:        req.Symptoms,
		AppointmentType: models.AppointmentType(req.AppointmentType),
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Created(c, "Appointment created successfully", appt)
}

// GetMyAppointments handles listing the caller's appointments with optional
// status/upcoming/past filters and pagination.
func (h *AppointmentHandler) GetMyAppointments(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.Service.ListAppointments(c.Request.Context(), principal, appointments.ListOptions{
		Status:   models.AppointmentStatus(c.Query("status")),
		Upcoming: c.Query("upcoming") == "true",
		Past:     c.Query("past") == "true",
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", result)
}

// GetStats handles the caller's appointment statistics for dashboards.
func (h *AppointmentHandler) GetStats(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	stats, err := h.Service.GetStats(c.Request.Context(), principal)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Appointment statistics fetched successfully", stats)
}

// GetAppointmentByID handles fetching a single appointment.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.GetAppointment(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointmentStatusRequest represents the request body for a status
// transition.
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled no-show"`
	Notes  string `json:"notes" binding:"max=1000"`
}

// UpdateAppointmentStatus handles moving an appointment through the state
// machine (assigned doctor or admin).
func (h *AppointmentHandler) UpdateAppointmentStatus(c *gin.Context) {
	var req UpdateAppointmentStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.UpdateStatus(c.Request.Context(), principal, c.Param("id"),
		models.AppointmentStatus(req.Status), req.Notes)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Appointment status updated successfully", appt)
}

// CancelAppointmentRequest represents the request body for a cancellation.
type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// CancelAppointment handles cancelling an appointment inside the 24-hour
// window.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.CancelAppointment(c.Request.Context(), principal, c.Param("id"), req.Reason)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Appointment cancelled successfully", appt)
}

// MedicationRequest is one medication line of a prescription.
type MedicationRequest struct {
	Name         string `json:"name" binding:"required"`
	Dosage       string `json:"dosage" binding:"required"`
	Frequency    string `json:"frequency" binding:"required"`
	Duration     string `json:"duration" binding:"required"`
	Instructions string `json:"instructions"`
}

// AddPrescriptionRequest represents the request body for a prescription.
type AddPrescriptionRequest struct {
	Medications     []MedicationRequest `json:"medications" binding:"required,min=1,dive"`
	Diagnosis       string              `json:"diagnosis" binding:"required,max=1000"`
	AdditionalNotes string              `json:"additionalNotes"`
}

// AddPrescription handles attaching a prescription to a completed
// appointment (assigned doctor only).
func (h *AppointmentHandler) AddPrescription(c *gin.Context) {
	var req AddPrescriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	medications := make([]models.Medication, len(req.Medications))
	for i, m := range req.Medications {
		medications[i] = models.Medication{
			Name:         m.Name,
			Dosage:       m.Dosage,
			Frequency:    m.Frequency,
			Duration:     m.Duration,
			Instructions: m.Instructions,
		}
	}

	appt, err := h.Service.AddPrescription(c.Request.Context(), principal, c.Param("id"), appointments.PrescriptionInput{
		Medications:     medications,
		Diagnosis:       req.Diagnosis,
		AdditionalNotes: req.AdditionalNotes,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Prescription added successfully", appt)
}

// AddVitalSignsRequest represents the request body for recorded vitals.
type AddVitalSignsRequest struct {
	BloodPressure string  `json:"bloodPressure"`
	HeartRate     float64 `json:"heartRate"`
	Temperature   float64 `json:"temperature"`
	Weight        float64 `json:"weight"`
	Height        float64 `json:"height"`
	OxygenLevel   float64 `json:"oxygenLevel"`
}

// AddVitalSigns handles recording vital signs (assigned doctor only).
func (h *AppointmentHandler) AddVitalSigns(c *gin.Context) {
	var req AddVitalSignsRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.AddVitalSigns(c.Request.Context(), principal, c.Param("id"), models.VitalSigns{
		BloodPressure: req.BloodPressure,
		HeartRate:     req.HeartRate,
		Temperature:   req.Temperature,
		Weight:        req.Weight,
		Height:        req.Height,
		OxygenLevel:   req.OxygenLevel,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Vital signs recorded successfully", appt)
}

// RateAppointmentRequest represents the request body for a patient rating.
type RateAppointmentRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=500"`
}

// RateAppointment handles the patient's one-time rating of a completed
// appointment.
func (h *AppointmentHandler) RateAppointment(c *gin.Context) {
	var req RateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	appt, err := h.Service.RateAppointment(c.Request.Context(), principal, c.Param("id"), req.Score, req.Comment)
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Rating submitted successfully", appt)
}
