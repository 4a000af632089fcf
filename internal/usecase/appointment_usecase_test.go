package usecase

import (
	"context"
	"errors"
	"io"
	"testing"

	"medtrack/internal/delivery/dto"
	"medtrack/internal/domain/entity"
	"medtrack/internal/notifier"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubDB returns a *gorm.DB that supports WithContext without a connection.
// The mock repositories below never touch it.
func stubDB() *gorm.DB {
	db := &gorm.DB{Config: &gorm.Config{}}
	db.Statement = &gorm.Statement{DB: db}
	return db
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type mockUserRepo struct {
	findByIDFn    func(id uuid.UUID) (*entity.User, error)
	findByEmailFn func(email string) (*entity.User, error)
	findDoctorsFn func() ([]entity.User, error)
}

func (m *mockUserRepo) Create(_ *gorm.DB, _ *entity.User) error { return nil }

func (m *mockUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	return m.findByEmailFn(email)
}

func (m *mockUserRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.User, error) {
	return m.findByIDFn(id)
}

func (m *mockUserRepo) FindDoctors(_ *gorm.DB) ([]entity.User, error) {
	return m.findDoctorsFn()
}

type mockAppointmentRepo struct {
	createFn            func(appointment *entity.Appointment) error
	findByIDFn          func(id uuid.UUID) (*entity.Appointment, error)
	completeDiagnosisFn func(id, doctorID uuid.UUID) (int64, error)
}

func (m *mockAppointmentRepo) Create(_ *gorm.DB, appointment *entity.Appointment) error {
	return m.createFn(appointment)
}

func (m *mockAppointmentRepo) FindByID(_ *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	return m.findByIDFn(id)
}

func (m *mockAppointmentRepo) FindByPatientID(_ *gorm.DB, _ uuid.UUID) ([]entity.Appointment, error) {
	return nil, nil
}

func (m *mockAppointmentRepo) FindByDoctorID(_ *gorm.DB, _ uuid.UUID) ([]entity.Appointment, error) {
	return nil, nil
}

func (m *mockAppointmentRepo) CompleteDiagnosis(_ *gorm.DB, id, doctorID uuid.UUID, _, _, _ string) (int64, error) {
	return m.completeDiagnosisFn(id, doctorID)
}

func newTestAppointmentUsecase(t *testing.T, userRepo *mockUserRepo, appointmentRepo *mockAppointmentRepo) AppointmentUsecase {
	t.Helper()
	dispatcher := notifier.NewDispatcher(quietLogger(), nil, nil, false, false)
	t.Cleanup(dispatcher.Close)
	return NewAppointmentUsecase(stubDB(), quietLogger(), userRepo, appointmentRepo, dispatcher)
}

func diagnosisRequest() *dto.SubmitDiagnosisRequest {
	return &dto.SubmitDiagnosisRequest{
		Diagnosis:     "Migraine",
		TreatmentPlan: "Rest and hydration",
		Prescription:  "Ibuprofen 400mg",
	}
}

func TestSubmitDiagnosis_Success(t *testing.T) {
	appointmentID := uuid.New()
	doctorID := uuid.New()
	appointments := &mockAppointmentRepo{
		completeDiagnosisFn: func(id, docID uuid.UUID) (int64, error) {
			assert.Equal(t, appointmentID, id)
			assert.Equal(t, doctorID, docID)
			return 1, nil
		},
		findByIDFn: func(id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{
				ID:        id,
				DoctorID:  doctorID,
				Status:    entity.AppointmentStatusCompleted,
				Patient:   entity.User{Email: "alice@example.com", FullName: "Alice Smith"},
				Doctor:    entity.User{Email: "house@example.com", FullName: "Gregory House"},
				Diagnosis: "Migraine",
			}, nil
		},
	}
	u := newTestAppointmentUsecase(t, &mockUserRepo{}, appointments)

	err := u.SubmitDiagnosis(context.Background(), appointmentID, doctorID, diagnosisRequest())
	assert.NoError(t, err)
}

func TestSubmitDiagnosis_NotFound(t *testing.T) {
	appointments := &mockAppointmentRepo{
		completeDiagnosisFn: func(_, _ uuid.UUID) (int64, error) { return 0, nil },
		findByIDFn: func(_ uuid.UUID) (*entity.Appointment, error) {
			return nil, nil
		},
	}
	u := newTestAppointmentUsecase(t, &mockUserRepo{}, appointments)

	err := u.SubmitDiagnosis(context.Background(), uuid.New(), uuid.New(), diagnosisRequest())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestSubmitDiagnosis_NotOwningDoctor(t *testing.T) {
	otherDoctorID := uuid.New()
	appointments := &mockAppointmentRepo{
		completeDiagnosisFn: func(_, _ uuid.UUID) (int64, error) { return 0, nil },
		findByIDFn: func(id uuid.UUID) (*entity.Appointment, error) {
			return &entity.Appointment{
				ID:       id,
				DoctorID: otherDoctorID,
				Status:   entity.AppointmentStatusPending,
			}, nil
		},
	}
	u := newTestAppointmentUsecase(t, &mockUserRepo{}, appointments)

	err := u.SubmitDiagnosis(context.Background(), uuid.New(), uuid.New(), diagnosisRequest())
	assert.ErrorIs(t, err, ErrNotAppointmentOwner)
}

func TestSubmitDiagnosis_AlreadyCompleted(t *testing.T) {
	doctorID := uuid.New()
	appointments := &mockAppointmentRepo{
		completeDiagnosisFn: func(_, _ uuid.UUID) (int64, error) { return 0, nil },
		findByIDFn: func(id uuid.UUID) (*entity.Appointment, error) {
			// Owned by the submitting doctor but no longer pending: a
			// concurrent submission won the conditional update.
			return &entity.Appointment{
				ID:       id,
				DoctorID: doctorID,
				Status:   entity.AppointmentStatusCompleted,
			}, nil
		},
	}
	u := newTestAppointmentUsecase(t, &mockUserRepo{}, appointments)

	err := u.SubmitDiagnosis(context.Background(), uuid.New(), doctorID, diagnosisRequest())
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestSubmitDiagnosis_UpdateErrorPropagates(t *testing.T) {
	dbErr := errors.New("connection reset")
	appointments := &mockAppointmentRepo{
		completeDiagnosisFn: func(_, _ uuid.UUID) (int64, error) { return 0, dbErr },
	}
	u := newTestAppointmentUsecase(t, &mockUserRepo{}, appointments)

	err := u.SubmitDiagnosis(context.Background(), uuid.New(), uuid.New(), diagnosisRequest())
	assert.ErrorIs(t, err, dbErr)
}

func TestBook_UnknownDoctorEmail(t *testing.T) {
	patientID := uuid.New()
	users := &mockUserRepo{
		findByIDFn: func(id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RolePatient, Email: "alice@example.com"}, nil
		},
		findByEmailFn: func(_ string) (*entity.User, error) { return nil, nil },
	}
	u := newTestAppointmentUsecase(t, users, &mockAppointmentRepo{})

	_, err := u.Book(context.Background(), patientID, &dto.BookAppointmentRequest{
		DoctorEmail: "nobody@example.com",
		Date:        "2026-09-15",
		Time:        "14:30",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBook_PatientEmailIsNotADoctor(t *testing.T) {
	patientID := uuid.New()
	users := &mockUserRepo{
		findByIDFn: func(id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RolePatient, Email: "alice@example.com"}, nil
		},
		findByEmailFn: func(email string) (*entity.User, error) {
			return &entity.User{ID: uuid.New(), Role: entity.RolePatient, Email: email}, nil
		},
	}
	u := newTestAppointmentUsecase(t, users, &mockAppointmentRepo{})

	_, err := u.Book(context.Background(), patientID, &dto.BookAppointmentRequest{
		DoctorEmail: "bob@example.com",
		Date:        "2026-09-15",
		Time:        "14:30",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBook_CreatesPendingAppointment(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	users := &mockUserRepo{
		findByIDFn: func(id uuid.UUID) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RolePatient, Email: "alice@example.com"}, nil
		},
		findByEmailFn: func(email string) (*entity.User, error) {
			return &entity.User{ID: doctorID, Role: entity.RoleDoctor, Email: email, FullName: "Gregory House"}, nil
		},
	}
	var created *entity.Appointment
	appointments := &mockAppointmentRepo{
		createFn: func(appointment *entity.Appointment) error {
			created = appointment
			return nil
		},
	}
	u := newTestAppointmentUsecase(t, users, appointments)

	view, err := u.Book(context.Background(), patientID, &dto.BookAppointmentRequest{
		DoctorEmail: "house@example.com",
		Date:        "2026-09-15",
		Time:        "14:30",
		Symptoms:    "Persistent headache",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, patientID, created.PatientID)
	assert.Equal(t, doctorID, created.DoctorID)
	assert.Equal(t, entity.AppointmentStatusPending, created.Status)
	assert.Equal(t, "Gregory House", view.DoctorName)
}
