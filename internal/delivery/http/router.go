package http

import (
	"net/http"

	"medtrack/internal/delivery/http/handler"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/domain/entity"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Router struct {
	router            *mux.Router
	pagesHandler      *handler.PagesHandler
	authHandler       *handler.AuthHandler
	patientHandler    *handler.PatientHandler
	doctorHandler     *handler.DoctorHandler
	authMiddleware    *middleware.AuthMiddleware
	recoverMiddleware *middleware.RecoverMiddleware
}

func NewRouter(
	pagesHandler *handler.PagesHandler,
	authHandler *handler.AuthHandler,
	patientHandler *handler.PatientHandler,
	doctorHandler *handler.DoctorHandler,
	authMiddleware *middleware.AuthMiddleware,
	recoverMiddleware *middleware.RecoverMiddleware,
) *Router {
	return &Router{
		router:            mux.NewRouter(),
		pagesHandler:      pagesHandler,
		authHandler:       authHandler,
		patientHandler:    patientHandler,
		doctorHandler:     doctorHandler,
		authMiddleware:    authMiddleware,
		recoverMiddleware: recoverMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// Observability
	r.router.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)
	r.router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	// Public pages
	r.router.HandleFunc("/", r.pagesHandler.Home).Methods(http.MethodGet)
	r.router.HandleFunc("/signup", r.authHandler.SignupPage).Methods(http.MethodGet)
	r.router.HandleFunc("/signup", r.authHandler.Signup).Methods(http.MethodPost)
	r.router.HandleFunc("/login", r.authHandler.LoginPage).Methods(http.MethodGet)
	r.router.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	r.router.HandleFunc("/forgot_password", r.authHandler.ForgotPasswordPage).Methods(http.MethodGet)
	r.router.HandleFunc("/forgot_password", r.authHandler.ForgotPassword).Methods(http.MethodPost)

	// Logout needs the identity to revoke the session
	r.router.Handle("/logout", r.authenticated(r.authHandler.Logout)).Methods(http.MethodGet)

	// Patient routes
	r.router.Handle("/patient/dashboard", r.asPatient(r.patientHandler.Dashboard)).Methods(http.MethodGet)
	r.router.Handle("/patient/profile", r.asPatient(r.patientHandler.Profile)).Methods(http.MethodGet)
	r.router.Handle("/book_appointment", r.asPatient(r.patientHandler.BookAppointmentPage)).Methods(http.MethodGet)
	r.router.Handle("/book_appointment", r.asPatient(r.patientHandler.BookAppointment)).Methods(http.MethodPost)
	r.router.Handle("/view_appointment/{id}", r.asPatient(r.patientHandler.ViewAppointment)).Methods(http.MethodGet)

	// Doctor routes
	r.router.Handle("/doctor/dashboard", r.asDoctor(r.doctorHandler.Dashboard)).Methods(http.MethodGet)
	r.router.Handle("/doctor/profile", r.asDoctor(r.doctorHandler.Profile)).Methods(http.MethodGet)
	r.router.Handle("/doctor/view-appointment/{id}", r.asDoctor(r.doctorHandler.ViewAppointment)).Methods(http.MethodGet)
	r.router.Handle("/doctor/submit-diagnosis/{id}", r.asDoctor(r.doctorHandler.SubmitDiagnosis)).Methods(http.MethodPost)

	// Dedicated 404 page
	r.router.NotFoundHandler = http.HandlerFunc(r.pagesHandler.NotFound)

	// Panic recovery renders the 500 page
	r.router.Use(r.recoverMiddleware.Handle)

	return r.router
}

func (r *Router) authenticated(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(h)
}

func (r *Router) asPatient(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(r.authMiddleware.RequireRole(entity.RolePatient)(h))
}

func (r *Router) asDoctor(h http.HandlerFunc) http.Handler {
	return r.authMiddleware.Authenticate(r.authMiddleware.RequireRole(entity.RoleDoctor)(h))
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
