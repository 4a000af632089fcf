package dto

import (
	"time"

	"github.com/google/uuid"
)

type BookAppointmentRequest struct {
	DoctorEmail string `form:"doctor_id" validate:"required,email"`
	Date        string `form:"appointment_date" validate:"required,datetime=2006-01-02"`
	Time        string `form:"appointment_time" validate:"required,datetime=15:04"`
	Symptoms    string `form:"symptoms" validate:"omitempty,max=2000"`
}

type SubmitDiagnosisRequest struct {
	Diagnosis     string `form:"diagnosis" validate:"required"`
	TreatmentPlan string `form:"treatment_plan" validate:"required"`
	Prescription  string `form:"prescription" validate:"required"`
}

type AppointmentView struct {
	ID             uuid.UUID
	PatientName    string
	PatientEmail   string
	DoctorName     string
	DoctorEmail    string
	Specialization string
	Date           string
	Time           string
	Symptoms       string
	Status         string
	Diagnosis      string
	TreatmentPlan  string
	Prescription   string
	CompletedAt    *time.Time
	CreatedAt      time.Time
}

// DashboardView feeds both role dashboards; Doctors is only populated for
// the patient view (the booking directory).
type DashboardView struct {
	User         UserView
	Appointments []AppointmentView
	Doctors      []UserView
	Pending      int
	Completed    int
	Total        int
}
