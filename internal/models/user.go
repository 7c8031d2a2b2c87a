package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// User represents a user in the system. Doctors and patients share one table;
// the role decides which profile fields are meaningful.
type User struct {
	BaseModel
	Email             string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password          string `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	Username          string `gorm:"size:100;index" json:"username"`
	Role              Role   `gorm:"size:20;default:'patient'" json:"role"`
	ProfileImage      string `json:"profileImage,omitempty"`
	VerificationToken string `gorm:"size:255" json:"-"`
	IsVerified        bool   `gorm:"default:false" json:"isVerified"`
	IsActive          bool   `gorm:"default:true" json:"isActive"`

	// Doctor profile
	Specialization  string   `gorm:"size:100;index" json:"specialization,omitempty"`
	LicenseNumber   string   `gorm:"size:100" json:"licenseNumber,omitempty"`
	Qualifications  []string `gorm:"serializer:json" json:"qualifications,omitempty"`
	Experience      int      `gorm:"default:0" json:"experience,omitempty"` // years
	ConsultationFee float64  `gorm:"default:0" json:"consultationFee,omitempty"`
	Bio             string   `gorm:"size:500" json:"bio,omitempty"`
	DoctorRating    float64  `gorm:"default:0" json:"rating"`
	TotalReviews    int      `gorm:"default:0" json:"totalReviews"`

	// Patient profile
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      string     `gorm:"size:20" json:"gender,omitempty"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Address     string     `json:"address,omitempty"`
	BloodType   string     `gorm:"size:3" json:"bloodType,omitempty"`
	Allergies   []string   `gorm:"serializer:json" json:"allergies,omitempty"`

	// Relations (not always preloaded)
	RefreshTokens       []RefreshToken  `gorm:"foreignKey:UserID" json:"-"`
	DoctorAppointments  []Appointment   `gorm:"foreignKey:DoctorID" json:"-"`
	PatientAppointments []Appointment   `gorm:"foreignKey:PatientID" json:"-"`
	MedicalRecords      []MedicalRecord `gorm:"foreignKey:PatientID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Username     string     `json:"username"`
	Role         Role       `json:"role"`
	DateOfBirth  *time.Time `json:"dateOfBirth,omitempty"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	Address      string     `json:"address,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	IsVerified   bool       `json:"isVerified"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// DoctorPublic is the doctor profile shape exposed to patients browsing the
// directory.
type DoctorPublic struct {
	ID              string   `json:"id"`
	Username        string   `json:"username"`
	Email           string   `json:"email"`
	Specialization  string   `json:"specialization"`
	Experience      int      `json:"experience"`
	ConsultationFee float64  `json:"consultationFee"`
	Qualifications  []string `json:"qualifications,omitempty"`
	ProfileImage    string   `json:"profileImage,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	Rating          float64  `json:"rating"`
	TotalReviews    int      `json:"totalReviews"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		Role:         u.Role,
		DateOfBirth:  u.DateOfBirth,
		PhoneNumber:  u.PhoneNumber,
		Address:      u.Address,
		ProfileImage: u.ProfileImage,
		IsVerified:   u.IsVerified,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// PublicDoctor projects the doctor-facing profile fields.
func (u *User) PublicDoctor() DoctorPublic {
	return DoctorPublic{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		Specialization:  u.Specialization,
		Experience:      u.Experience,
		ConsultationFee: u.ConsultationFee,
		Qualifications:  u.Qualifications,
		ProfileImage:    u.ProfileImage,
		Bio:             u.Bio,
		Rating:          u.DoctorRating,
		TotalReviews:    u.TotalReviews,
	}
}
