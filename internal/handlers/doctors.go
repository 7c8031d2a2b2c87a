package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"telehealth-server/internal/appointments"
	"telehealth-server/internal/utils"
)

// DoctorHandler exposes the public doctor directory.
type DoctorHandler struct {
	Service *appointments.Service
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(service *appointments.Service) *DoctorHandler {
	return &DoctorHandler{Service: service}
}

// GetDoctors handles browsing verified, active doctors with filters.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	minExperience, _ := strconv.Atoi(c.Query("minExperience"))
	maxFee, _ := strconv.ParseFloat(c.Query("maxFee"), 64)
	minRating, _ := strconv.ParseFloat(c.Query("minRating"), 64)

	result, err := h.Service.ListDoctors(c.Request.Context(), appointments.DoctorFilter{
		Specialization: c.Query("specialization"),
		MinExperience:  minExperience,
		MaxFee:         maxFee,
		MinRating:      minRating,
		Search:         c.Query("search"),
		Page:           page,
		PageSize:       pageSize,
	})
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", result)
}

// GetDoctorByID handles fetching one doctor's profile together with the
// already-booked upcoming slots.
func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	detail, err := h.Service.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Doctor fetched successfully", detail)
}

// GetSpecializations handles listing the distinct specializations of
// eligible doctors.
func (h *DoctorHandler) GetSpecializations(c *gin.Context) {
	specializations, err := h.Service.ListSpecializations(c.Request.Context())
	if err != nil {
		respondDomainError(c, err)
		return
	}
	utils.Success(c, "Specializations fetched successfully", specializations)
}
