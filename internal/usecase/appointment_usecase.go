package usecase

import (
	"context"
	"errors"
	"fmt"

	"medtrack/internal/converter"
	"medtrack/internal/delivery/dto"
	"medtrack/internal/domain/entity"
	"medtrack/internal/domain/repository"
	"medtrack/internal/metrics"
	"medtrack/internal/notifier"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrNotAppointmentOwner = errors.New("appointment does not belong to you")
	ErrAlreadyCompleted    = errors.New("diagnosis has already been submitted")
	ErrDoctorNotFound      = errors.New("doctor not found")
)

type AppointmentUsecase interface {
	Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentView, error)
	PatientDashboard(ctx context.Context, patientID uuid.UUID) (*dto.DashboardView, error)
	DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DashboardView, error)
	ListDoctors(ctx context.Context) ([]dto.UserView, error)
	GetForPatient(ctx context.Context, id, patientID uuid.UUID) (*dto.AppointmentView, error)
	GetForDoctor(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentView, error)
	SubmitDiagnosis(ctx context.Context, id, doctorID uuid.UUID, req *dto.SubmitDiagnosisRequest) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	appointmentRepo repository.AppointmentRepository
	dispatcher      *notifier.Dispatcher
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	appointmentRepo repository.AppointmentRepository,
	dispatcher *notifier.Dispatcher,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
		dispatcher:      dispatcher,
	}
}

// Book creates a pending appointment for the patient with the chosen doctor,
// then hands best-effort notifications to the dispatcher. A notification
// failure never rolls back or blocks the booking.
func (u *appointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentView, error) {
	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	doctor, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), req.DoctorEmail)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", req.DoctorEmail, err)
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, ErrDoctorNotFound
	}

	appointment := &entity.Appointment{
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      req.Date,
		Time:      req.Time,
		Symptoms:  req.Symptoms,
		Status:    entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	metrics.AppointmentsCreated.Inc()
	u.log.Infof("Appointment created: id=%s, patient=%s, doctor=%s, date=%s %s",
		appointment.ID, patient.Email, doctor.Email, req.Date, req.Time)

	subject := "New Appointment Booked"
	u.dispatcher.EnqueueEmail(doctor.Email, subject, fmt.Sprintf(
		"<h3>New Appointment</h3><p>You have a new appointment on %s at %s.<br>Symptoms: %s</p>",
		req.Date, req.Time, req.Symptoms))
	u.dispatcher.EnqueueEmail(patient.Email, "Appointment Confirmation", fmt.Sprintf(
		"<h3>Appointment Confirmed</h3><p>Your appointment with Dr. %s on %s at %s is booked and pending.</p>",
		doctor.FullName, req.Date, req.Time))
	u.dispatcher.EnqueueTopic(subject, fmt.Sprintf(
		"Doctor %s has a new appointment from %s on %s at %s.",
		doctor.FullName, patient.Email, req.Date, req.Time))

	appointment.Patient = *patient
	appointment.Doctor = *doctor
	return converter.AppointmentToView(appointment), nil
}

func (u *appointmentUsecase) PatientDashboard(ctx context.Context, patientID uuid.UUID) (*dto.DashboardView, error) {
	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), patientID)
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for patient %s: %+v", patientID, err)
		return nil, err
	}

	doctors, err := u.userRepo.FindDoctors(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}

	view := buildDashboard(patient, appointments)
	view.Doctors = converter.UsersToViews(doctors)
	return view, nil
}

func (u *appointmentUsecase) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DashboardView, error) {
	doctor, err := u.userRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrUserNotFound
	}

	appointments, err := u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to list appointments for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	return buildDashboard(doctor, appointments), nil
}

func (u *appointmentUsecase) ListDoctors(ctx context.Context) ([]dto.UserView, error) {
	doctors, err := u.userRepo.FindDoctors(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return converter.UsersToViews(doctors), nil
}

func (u *appointmentUsecase) GetForPatient(ctx context.Context, id, patientID uuid.UUID) (*dto.AppointmentView, error) {
	appointment, err := u.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.BelongsToPatient(patientID) {
		return nil, ErrNotAppointmentOwner
	}
	return converter.AppointmentToView(appointment), nil
}

func (u *appointmentUsecase) GetForDoctor(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentView, error) {
	appointment, err := u.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !appointment.BelongsToDoctor(doctorID) {
		return nil, ErrNotAppointmentOwner
	}
	return converter.AppointmentToView(appointment), nil
}

// SubmitDiagnosis transitions an appointment from pending to completed
// exactly once. The conditional update keyed on status=pending guards against
// a concurrent double submission.
func (u *appointmentUsecase) SubmitDiagnosis(ctx context.Context, id, doctorID uuid.UUID, req *dto.SubmitDiagnosisRequest) error {
	rows, err := u.appointmentRepo.CompleteDiagnosis(
		u.db.WithContext(ctx), id, doctorID,
		req.Diagnosis, req.TreatmentPlan, req.Prescription,
	)
	if err != nil {
		u.log.Warnf("Failed to complete appointment %s: %+v", id, err)
		return err
	}

	if rows == 0 {
		appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
		if err != nil {
			return err
		}
		switch {
		case appointment == nil:
			return ErrAppointmentNotFound
		case !appointment.BelongsToDoctor(doctorID):
			return ErrNotAppointmentOwner
		default:
			return ErrAlreadyCompleted
		}
	}

	metrics.DiagnosesSubmitted.Inc()
	u.log.Infof("Diagnosis submitted: appointment=%s, doctor=%s", id, doctorID)

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || appointment == nil {
		// The transition already happened; skip notifications rather than fail.
		u.log.Warnf("Failed to reload appointment %s for notification: %+v", id, err)
		return nil
	}

	subject := "Diagnosis Submitted"
	u.dispatcher.EnqueueEmail(appointment.Patient.Email, subject, fmt.Sprintf(
		"<h3>Diagnosis Ready</h3><p>Dr. %s has completed your appointment of %s.<br>Diagnosis: %s</p>",
		appointment.Doctor.FullName, appointment.Date, req.Diagnosis))
	u.dispatcher.EnqueueTopic(subject, fmt.Sprintf(
		"Doctor %s submitted a diagnosis for patient %s.",
		appointment.Doctor.FullName, appointment.Patient.Email))

	return nil
}

func (u *appointmentUsecase) findByID(ctx context.Context, id uuid.UUID) (*entity.Appointment, error) {
	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	return appointment, nil
}

func buildDashboard(user *entity.User, appointments []entity.Appointment) *dto.DashboardView {
	pending, completed := 0, 0
	for _, a := range appointments {
		switch a.Status {
		case entity.AppointmentStatusPending:
			pending++
		case entity.AppointmentStatusCompleted:
			completed++
		}
	}

	return &dto.DashboardView{
		User:         *converter.UserToView(user),
		Appointments: converter.AppointmentsToViews(appointments),
		Pending:      pending,
		Completed:    completed,
		Total:        len(appointments),
	}
}
