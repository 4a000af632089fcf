package repository

import (
	"errors"
	"time"

	"medtrack/internal/domain/entity"
	domainRepo "medtrack/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type appointmentRepository struct{}

func NewAppointmentRepository() domainRepo.AppointmentRepository {
	return &appointmentRepository{}
}

func (r *appointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	return db.Create(appointment).Error
}

func (r *appointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	var appointment entity.Appointment
	err := db.Preload("Patient.PatientProfile").Preload("Doctor.DoctorProfile").
		Where("id = ?", id).First(&appointment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &appointment, nil
}

func (r *appointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Doctor.DoctorProfile").
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

func (r *appointmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Appointment, error) {
	var appointments []entity.Appointment
	err := db.Preload("Patient.PatientProfile").
		Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, err
	}
	return appointments, nil
}

// CompleteDiagnosis atomically transitions an appointment to completed ONLY if
// it is still pending and owned by the given doctor. Returns affected rows:
// 1 = success, 0 = already completed or not the owning doctor (prevents a
// double-submission race between concurrent requests).
func (r *appointmentRepository) CompleteDiagnosis(db *gorm.DB, id, doctorID uuid.UUID, diagnosis, treatmentPlan, prescription string) (int64, error) {
	now := time.Now().UTC()
	result := db.Model(&entity.Appointment{}).
		Where("id = ? AND doctor_id = ? AND status = ?", id, doctorID, entity.AppointmentStatusPending).
		Updates(map[string]interface{}{
			"status":         entity.AppointmentStatusCompleted,
			"diagnosis":      diagnosis,
			"treatment_plan": treatmentPlan,
			"prescription":   prescription,
			"completed_at":   now,
		})
	return result.RowsAffected, result.Error
}
