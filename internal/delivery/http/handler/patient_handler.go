package handler

import (
	"net/http"

	"medtrack/internal/delivery/dto"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/render"
	"medtrack/internal/usecase"
	"medtrack/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PatientHandler struct {
	authUsecase        usecase.AuthUsecase
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	renderer           *render.Renderer
}

func NewPatientHandler(
	authUsecase usecase.AuthUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	validator *validator.CustomValidator,
	renderer *render.Renderer,
) *PatientHandler {
	return &PatientHandler{
		authUsecase:        authUsecase,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		renderer:           renderer,
	}
}

func (h *PatientHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	dashboard, err := h.appointmentUsecase.PatientDashboard(r.Context(), identity.UserID)
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Failed to load dashboard.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "patient_dashboard.html", dashboard)
}

func (h *PatientHandler) BookAppointmentPage(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.appointmentUsecase.ListDoctors(r.Context())
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Failed to load doctor directory.")
		http.Redirect(w, r, "/patient/dashboard", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "book_appointment.html", doctors)
}

func (h *PatientHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderer.Flash(w, r, "danger", "Invalid form submission.")
		http.Redirect(w, r, "/book_appointment", http.StatusFound)
		return
	}

	req := &dto.BookAppointmentRequest{
		DoctorEmail: r.FormValue("doctor_id"),
		Date:        r.FormValue("appointment_date"),
		Time:        r.FormValue("appointment_time"),
		Symptoms:    r.FormValue("symptoms"),
	}

	if err := h.validator.Validate(req); err != nil {
		h.renderer.Flash(w, r, "danger", firstMessage(h.validator.FormatValidationErrors(err)))
		http.Redirect(w, r, "/book_appointment", http.StatusFound)
		return
	}

	if _, err := h.appointmentUsecase.Book(r.Context(), identity.UserID, req); err != nil {
		switch err {
		case usecase.ErrDoctorNotFound:
			h.renderer.Flash(w, r, "danger", "Doctor not found.")
		default:
			h.renderer.Flash(w, r, "danger", "Failed to book appointment.")
		}
		http.Redirect(w, r, "/book_appointment", http.StatusFound)
		return
	}

	h.renderer.Flash(w, r, "success", "Appointment booked successfully! Notification sent to doctor.")
	http.Redirect(w, r, "/patient/dashboard", http.StatusFound)
}

func (h *PatientHandler) ViewAppointment(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Appointment not found.")
		http.Redirect(w, r, "/patient/dashboard", http.StatusFound)
		return
	}

	appointment, err := h.appointmentUsecase.GetForPatient(r.Context(), id, identity.UserID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			h.renderer.Flash(w, r, "danger", "Appointment not found.")
		case usecase.ErrNotAppointmentOwner:
			h.renderer.Flash(w, r, "danger", "Access denied.")
		default:
			h.renderer.Flash(w, r, "danger", "Failed to load appointment.")
		}
		http.Redirect(w, r, "/patient/dashboard", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "view_appointment_patient.html", appointment)
}

func (h *PatientHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.authUsecase.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Failed to load profile.")
		http.Redirect(w, r, "/patient/dashboard", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "patient_profile.html", profile)
}
