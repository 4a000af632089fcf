package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"medtrack/internal/delivery/dto"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/domain/entity"
	"medtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doctorIdentity() *middleware.Identity {
	return &middleware.Identity{
		UserID: uuid.New(),
		Email:  "house@example.com",
		Role:   entity.RoleDoctor,
	}
}

func diagnosisForm() url.Values {
	return url.Values{
		"diagnosis":      {"Migraine"},
		"treatment_plan": {"Rest and hydration"},
		"prescription":   {"Ibuprofen 400mg"},
	}
}

func TestDoctorDashboard_Renders(t *testing.T) {
	identity := doctorIdentity()
	appointments := &mockAppointmentUsecase{
		doctorDashboardFn: func(_ context.Context, doctorID uuid.UUID) (*dto.DashboardView, error) {
			assert.Equal(t, identity.UserID, doctorID)
			return &dto.DashboardView{Total: 3, Pending: 2, Completed: 1}, nil
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	req := httptest.NewRequest(http.MethodGet, "/doctor/dashboard", nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	rec := httptest.NewRecorder()
	h.Dashboard(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "doctor_dashboard.html")
}

func TestSubmitDiagnosis_SuccessRedirectsToDashboard(t *testing.T) {
	identity := doctorIdentity()
	appointmentID := uuid.New()
	var gotReq *dto.SubmitDiagnosisRequest
	appointments := &mockAppointmentUsecase{
		submitDiagnosisFn: func(_ context.Context, id, doctorID uuid.UUID, req *dto.SubmitDiagnosisRequest) error {
			assert.Equal(t, appointmentID, id)
			assert.Equal(t, identity.UserID, doctorID)
			gotReq = req
			return nil
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	req := postForm("/doctor/submit-diagnosis/"+appointmentID.String(), diagnosisForm(), identity)
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.SubmitDiagnosis(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/dashboard", rec.Header().Get("Location"))
	require.NotNil(t, gotReq)
	assert.Equal(t, "Migraine", gotReq.Diagnosis)
	assert.Equal(t, "Rest and hydration", gotReq.TreatmentPlan)
	assert.Equal(t, "Ibuprofen 400mg", gotReq.Prescription)
}

func TestSubmitDiagnosis_MissingFieldsRejectedBeforeUsecase(t *testing.T) {
	called := false
	appointmentID := uuid.New()
	appointments := &mockAppointmentUsecase{
		submitDiagnosisFn: func(_ context.Context, _, _ uuid.UUID, _ *dto.SubmitDiagnosisRequest) error {
			called = true
			return nil
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	form := diagnosisForm()
	form.Del("diagnosis")
	req := postForm("/doctor/submit-diagnosis/"+appointmentID.String(), form, doctorIdentity())
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.SubmitDiagnosis(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/view-appointment/"+appointmentID.String(), rec.Header().Get("Location"))
	assert.False(t, called)
}

func TestSubmitDiagnosis_AlreadyCompletedBouncesToDashboard(t *testing.T) {
	appointmentID := uuid.New()
	appointments := &mockAppointmentUsecase{
		submitDiagnosisFn: func(_ context.Context, _, _ uuid.UUID, _ *dto.SubmitDiagnosisRequest) error {
			return usecase.ErrAlreadyCompleted
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	req := postForm("/doctor/submit-diagnosis/"+appointmentID.String(), diagnosisForm(), doctorIdentity())
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.SubmitDiagnosis(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/dashboard", rec.Header().Get("Location"))
}

func TestSubmitDiagnosis_NotOwnerRejected(t *testing.T) {
	appointmentID := uuid.New()
	appointments := &mockAppointmentUsecase{
		submitDiagnosisFn: func(_ context.Context, _, _ uuid.UUID, _ *dto.SubmitDiagnosisRequest) error {
			return usecase.ErrNotAppointmentOwner
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	req := postForm("/doctor/submit-diagnosis/"+appointmentID.String(), diagnosisForm(), doctorIdentity())
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.SubmitDiagnosis(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/dashboard", rec.Header().Get("Location"))
}

func TestDoctorViewAppointment_OwnerSeesDetail(t *testing.T) {
	identity := doctorIdentity()
	appointmentID := uuid.New()
	appointments := &mockAppointmentUsecase{
		getForDoctorFn: func(_ context.Context, id, doctorID uuid.UUID) (*dto.AppointmentView, error) {
			assert.Equal(t, appointmentID, id)
			assert.Equal(t, identity.UserID, doctorID)
			return &dto.AppointmentView{ID: id, Status: string(entity.AppointmentStatusPending)}, nil
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	req := httptest.NewRequest(http.MethodGet, "/doctor/view-appointment/"+appointmentID.String(), nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	req = mux.SetURLVars(req, map[string]string{"id": appointmentID.String()})
	rec := httptest.NewRecorder()
	h.ViewAppointment(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "view_appointment_doctor.html")
}

func TestDoctorViewAppointment_NotFoundRedirects(t *testing.T) {
	appointments := &mockAppointmentUsecase{
		getForDoctorFn: func(_ context.Context, _, _ uuid.UUID) (*dto.AppointmentView, error) {
			return nil, usecase.ErrAppointmentNotFound
		},
	}
	h := NewDoctorHandler(&mockAuthUsecase{}, appointments, newTestValidator(), newTestRenderer(t))

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/doctor/view-appointment/"+id, nil)
	req = req.WithContext(middleware.WithIdentity(req.Context(), *doctorIdentity()))
	req = mux.SetURLVars(req, map[string]string{"id": id})
	rec := httptest.NewRecorder()
	h.ViewAppointment(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/doctor/dashboard", rec.Header().Get("Location"))
}
