package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/utils"
)

// MedicalRecordHandler handles read access to a patient's medical history.
// Prescription entries are written by the appointment lifecycle; doctors can
// additionally file consultation notes and other record types directly.
type MedicalRecordHandler struct {
	DB *gorm.DB
}

// NewMedicalRecordHandler creates a new MedicalRecordHandler.
func NewMedicalRecordHandler(db *gorm.DB) *MedicalRecordHandler {
	return &MedicalRecordHandler{DB: db}
}

// CreateMedicalRecordRequest represents the request body for a doctor filing
// a record outside the prescription flow.
type CreateMedicalRecordRequest struct {
	PatientID     string              `json:"patientId" binding:"required,uuid"`
	AppointmentID string              `json:"appointmentId" binding:"omitempty,uuid"`
	RecordType    string              `json:"recordType" binding:"required,oneof=consultation lab-result imaging vaccination surgery other"`
	Title         string              `json:"title" binding:"required,max=200"`
	Description   string              `json:"description" binding:"max=2000"`
	Diagnosis     string              `json:"diagnosis" binding:"max=1000"`
	Treatment     string              `json:"treatment" binding:"max=1000"`
	Medications   []models.Medication `json:"medications"`
	RecordDate    string              `json:"recordDate"` // "2006-01-02", defaults to today
}

func parseDateOrNow(s string) time.Time {
	if s == "" {
		return time.Now()
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Now()
	}
	return d
}

// CreateMedicalRecord handles a doctor filing a medical record.
func (h *MedicalRecordHandler) CreateMedicalRecord(c *gin.Context) {
	var req CreateMedicalRecordRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}
	doctorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	// Verify the patient exists
	var patient models.User
	if err := h.DB.Where("id = ? AND role = ?", req.PatientID, models.RolePatient).First(&patient).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error verifying patient: "+err.Error())
		}
		return
	}

	record := models.MedicalRecord{
		PatientID:     req.PatientID,
		AppointmentID: req.AppointmentID,
		RecordType:    models.MedicalRecordType(req.RecordType),
		Title:         req.Title,
		Description:   req.Description,
		Diagnosis:     req.Diagnosis,
		Treatment:     req.Treatment,
		Medications:   req.Medications,
		RecordedBy:    doctorID,
	}
	record.RecordDate = parseDateOrNow(req.RecordDate)

	if err := h.DB.Create(&record).Error; err != nil {
		utils.InternalServerError(c, "Failed to create medical record: "+err.Error())
		return
	}

	utils.Created(c, "Medical record created successfully", record)
}

// GetMedicalRecordsForPatient handles listing a patient's records. Patients
// see their own history; doctors and admins can read any patient's.
func (h *MedicalRecordHandler) GetMedicalRecordsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient && userID != patientID {
		utils.Forbidden(c, "Patients can only view their own medical records")
		return
	}

	var records []models.MedicalRecord
	err := h.DB.Where("patient_id = ?", patientID).
		Order("record_date DESC").
		Find(&records).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch medical records: "+err.Error())
		return
	}

	utils.Success(c, "Medical records fetched successfully", records)
}

// GetMedicalRecordByID handles fetching a single medical record.
func (h *MedicalRecordHandler) GetMedicalRecordByID(c *gin.Context) {
	recordID := c.Param("id")

	var record models.MedicalRecord
	if err := h.DB.First(&record, "id = ?", recordID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Medical record not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	isPatient := userID == record.PatientID
	isAuthor := userID == record.RecordedBy
	if userRole != models.RoleAdmin && userRole != models.RoleDoctor && !isPatient && !isAuthor {
		utils.Forbidden(c, "You are not authorized to view this medical record")
		return
	}

	utils.Success(c, "Medical record fetched successfully", record)
}
