package entity

import "github.com/google/uuid"

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Age     int       `gorm:"not null" json:"age"`
	Gender  string    `gorm:"type:varchar(10);not null" json:"gender"`
	Address string    `gorm:"type:text" json:"address,omitempty"`
	Mobile  string    `gorm:"type:varchar(20)" json:"mobile,omitempty"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
