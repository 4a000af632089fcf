package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"medtrack/internal/delivery/dto"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/render"
	"medtrack/internal/usecase"
	"medtrack/pkg/validator"

	"github.com/google/uuid"
)

// mockAuthUsecase implements usecase.AuthUsecase with per-test function
// fields; unset methods panic so a test cannot silently hit the wrong path.
type mockAuthUsecase struct {
	signupPatientFn  func(ctx context.Context, req *dto.SignupPatientRequest) error
	signupDoctorFn   func(ctx context.Context, req *dto.SignupDoctorRequest) error
	loginFn          func(ctx context.Context, req *dto.LoginRequest) (*usecase.SessionToken, error)
	logoutFn         func(ctx context.Context, userID uuid.UUID, tokenID string) error
	getProfileFn     func(ctx context.Context, userID uuid.UUID) (*dto.UserView, error)
	forgotPasswordFn func(ctx context.Context, email string) (bool, error)
}

func (m *mockAuthUsecase) SignupPatient(ctx context.Context, req *dto.SignupPatientRequest) error {
	return m.signupPatientFn(ctx, req)
}

func (m *mockAuthUsecase) SignupDoctor(ctx context.Context, req *dto.SignupDoctorRequest) error {
	return m.signupDoctorFn(ctx, req)
}

func (m *mockAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*usecase.SessionToken, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, tokenID string) error {
	return m.logoutFn(ctx, userID, tokenID)
}

func (m *mockAuthUsecase) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserView, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockAuthUsecase) ForgotPassword(ctx context.Context, email string) (bool, error) {
	return m.forgotPasswordFn(ctx, email)
}

type mockAppointmentUsecase struct {
	bookFn             func(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentView, error)
	patientDashboardFn func(ctx context.Context, patientID uuid.UUID) (*dto.DashboardView, error)
	doctorDashboardFn  func(ctx context.Context, doctorID uuid.UUID) (*dto.DashboardView, error)
	listDoctorsFn      func(ctx context.Context) ([]dto.UserView, error)
	getForPatientFn    func(ctx context.Context, id, patientID uuid.UUID) (*dto.AppointmentView, error)
	getForDoctorFn     func(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentView, error)
	submitDiagnosisFn  func(ctx context.Context, id, doctorID uuid.UUID, req *dto.SubmitDiagnosisRequest) error
}

func (m *mockAppointmentUsecase) Book(ctx context.Context, patientID uuid.UUID, req *dto.BookAppointmentRequest) (*dto.AppointmentView, error) {
	return m.bookFn(ctx, patientID, req)
}

func (m *mockAppointmentUsecase) PatientDashboard(ctx context.Context, patientID uuid.UUID) (*dto.DashboardView, error) {
	return m.patientDashboardFn(ctx, patientID)
}

func (m *mockAppointmentUsecase) DoctorDashboard(ctx context.Context, doctorID uuid.UUID) (*dto.DashboardView, error) {
	return m.doctorDashboardFn(ctx, doctorID)
}

func (m *mockAppointmentUsecase) ListDoctors(ctx context.Context) ([]dto.UserView, error) {
	return m.listDoctorsFn(ctx)
}

func (m *mockAppointmentUsecase) GetForPatient(ctx context.Context, id, patientID uuid.UUID) (*dto.AppointmentView, error) {
	return m.getForPatientFn(ctx, id, patientID)
}

func (m *mockAppointmentUsecase) GetForDoctor(ctx context.Context, id, doctorID uuid.UUID) (*dto.AppointmentView, error) {
	return m.getForDoctorFn(ctx, id, doctorID)
}

func (m *mockAppointmentUsecase) SubmitDiagnosis(ctx context.Context, id, doctorID uuid.UUID, req *dto.SubmitDiagnosisRequest) error {
	return m.submitDiagnosisFn(ctx, id, doctorID, req)
}

func newTestRenderer(t *testing.T) *render.Renderer {
	t.Helper()
	names := []string{
		"index.html", "signup.html", "login.html", "forgot_password.html",
		"patient_dashboard.html", "doctor_dashboard.html", "book_appointment.html",
		"view_appointment_patient.html", "view_appointment_doctor.html",
		"patient_profile.html", "doctor_profile.html", "404.html", "500.html",
	}
	templates := make(map[string]*template.Template, len(names))
	for _, name := range names {
		templates[name] = template.Must(template.New(name).Parse(name))
	}
	return render.NewRendererWithTemplates(templates, "test-secret")
}

func newTestValidator() *validator.CustomValidator {
	return validator.NewValidator()
}

// postForm builds a form POST request carrying the given identity.
func postForm(target string, values url.Values, identity *middleware.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), *identity))
	}
	return req
}
