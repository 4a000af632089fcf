package entity

import "github.com/google/uuid"

// MinDoctorAge is the minimum age accepted for doctor signups.
const MinDoctorAge = 23

// DoctorProfile represents doctor-specific profile data
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Age            int       `gorm:"not null" json:"age"`
	Gender         string    `gorm:"type:varchar(10);not null" json:"gender"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Mobile         string    `gorm:"type:varchar(20)" json:"mobile,omitempty"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:DoctorID" json:"appointments,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
