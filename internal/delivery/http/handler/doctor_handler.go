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

type DoctorHandler struct {
	authUsecase        usecase.AuthUsecase
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
	renderer           *render.Renderer
}

func NewDoctorHandler(
	authUsecase usecase.AuthUsecase,
	appointmentUsecase usecase.AppointmentUsecase,
	validator *validator.CustomValidator,
	renderer *render.Renderer,
) *DoctorHandler {
	return &DoctorHandler{
		authUsecase:        authUsecase,
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
		renderer:           renderer,
	}
}

func (h *DoctorHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	dashboard, err := h.appointmentUsecase.DoctorDashboard(r.Context(), identity.UserID)
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Failed to load dashboard.")
		http.Redirect(w, r, "/login", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "doctor_dashboard.html", dashboard)
}

func (h *DoctorHandler) ViewAppointment(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Appointment not found.")
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	appointment, err := h.appointmentUsecase.GetForDoctor(r.Context(), id, identity.UserID)
	if err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			h.renderer.Flash(w, r, "danger", "Appointment not found.")
		case usecase.ErrNotAppointmentOwner:
			h.renderer.Flash(w, r, "danger", "Access denied.")
		default:
			h.renderer.Flash(w, r, "danger", "Failed to load appointment.")
		}
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "view_appointment_doctor.html", appointment)
}

// SubmitDiagnosis transitions the appointment to completed. A second
// submission, or a submission by a non-owning doctor, is rejected without
// touching the record.
func (h *DoctorHandler) SubmitDiagnosis(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Appointment not found.")
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.Flash(w, r, "danger", "Invalid form submission.")
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	req := &dto.SubmitDiagnosisRequest{
		Diagnosis:     r.FormValue("diagnosis"),
		TreatmentPlan: r.FormValue("treatment_plan"),
		Prescription:  r.FormValue("prescription"),
	}

	if err := h.validator.Validate(req); err != nil {
		h.renderer.Flash(w, r, "danger", firstMessage(h.validator.FormatValidationErrors(err)))
		http.Redirect(w, r, "/doctor/view-appointment/"+id.String(), http.StatusFound)
		return
	}

	if err := h.appointmentUsecase.SubmitDiagnosis(r.Context(), id, identity.UserID, req); err != nil {
		switch err {
		case usecase.ErrAppointmentNotFound:
			h.renderer.Flash(w, r, "danger", "Appointment not found.")
		case usecase.ErrNotAppointmentOwner:
			h.renderer.Flash(w, r, "danger", "Access denied.")
		case usecase.ErrAlreadyCompleted:
			h.renderer.Flash(w, r, "danger", "Diagnosis has already been submitted.")
		default:
			h.renderer.Flash(w, r, "danger", "Failed to submit diagnosis.")
		}
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	h.renderer.Flash(w, r, "success", "Diagnosis submitted successfully.")
	http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
}

func (h *DoctorHandler) Profile(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())

	profile, err := h.authUsecase.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		h.renderer.Flash(w, r, "danger", "Failed to load profile.")
		http.Redirect(w, r, "/doctor/dashboard", http.StatusFound)
		return
	}

	h.renderer.HTML(w, r, http.StatusOK, "doctor_profile.html", profile)
}
