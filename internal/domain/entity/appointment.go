package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Appointment represents a booked consultation between a patient and a doctor.
// The only status transition is pending -> completed, performed once by the
// referenced doctor when submitting a diagnosis.
type Appointment struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	DoctorID      uuid.UUID         `gorm:"type:uuid;not null;index" json:"doctor_id"`
	Date          string            `gorm:"type:varchar(10);not null" json:"date"`
	Time          string            `gorm:"type:varchar(5);not null" json:"time"`
	Symptoms      string            `gorm:"type:text" json:"symptoms,omitempty"`
	Status        AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Diagnosis     string            `gorm:"type:text" json:"diagnosis,omitempty"`
	TreatmentPlan string            `gorm:"type:text" json:"treatment_plan,omitempty"`
	Prescription  string            `gorm:"type:text" json:"prescription,omitempty"`
	CompletedAt   *time.Time        `json:"completed_at,omitempty"`
	CreatedAt     time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment is awaiting a diagnosis
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsCompleted checks if the appointment has a submitted diagnosis
func (a *Appointment) IsCompleted() bool {
	return a.Status == AppointmentStatusCompleted
}

// BelongsToPatient reports whether the given user owns this appointment as patient.
func (a *Appointment) BelongsToPatient(userID uuid.UUID) bool {
	return a.PatientID == userID
}

// BelongsToDoctor reports whether the given user is the referenced doctor.
func (a *Appointment) BelongsToDoctor(userID uuid.UUID) bool {
	return a.DoctorID == userID
}
