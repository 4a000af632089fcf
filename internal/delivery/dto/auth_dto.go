package dto

import (
	"time"

	"github.com/google/uuid"
)

// Form request DTOs. These are populated from POSTed form fields and checked
// with the validator before anything touches the database.

type SignupPatientRequest struct {
	FullName        string `form:"name" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	Age             int    `form:"patient_age" validate:"required,gte=1,lte=120"`
	Gender          string `form:"patient_gender" validate:"required,oneof=male female other"`
	Address         string `form:"address" validate:"omitempty"`
	Mobile          string `form:"mobile" validate:"omitempty,min=7,max=20"`
}

type SignupDoctorRequest struct {
	FullName        string `form:"name" validate:"required,min=2"`
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"required,eqfield=Password"`
	Age             int    `form:"doctor_age" validate:"required,gte=23,lte=120"`
	Gender          string `form:"doctor_gender" validate:"required,oneof=male female other"`
	Specialization  string `form:"specialization" validate:"required,min=2"`
	Mobile          string `form:"mobile" validate:"omitempty,min=7,max=20"`
}

type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
	Role     string `form:"role" validate:"required,oneof=patient doctor"`
}

type ForgotPasswordRequest struct {
	Email string `form:"email" validate:"required,email"`
}

// View DTOs rendered into templates.

type UserView struct {
	ID             uuid.UUID
	Role           string
	FullName       string
	Email          string
	Age            int
	Gender         string
	Address        string
	Mobile         string
	Specialization string
	CreatedAt      time.Time
}
