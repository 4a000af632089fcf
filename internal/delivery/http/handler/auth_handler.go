package handler

import (
	"net/http"
	"strconv"

	"medtrack/internal/delivery/dto"
	"medtrack/internal/delivery/http/middleware"
	"medtrack/internal/delivery/http/render"
	"medtrack/internal/domain/entity"
	"medtrack/internal/usecase"
	"medtrack/pkg/validator"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	validator   *validator.CustomValidator
	renderer    *render.Renderer
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, validator *validator.CustomValidator, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		validator:   validator,
		renderer:    renderer,
	}
}

func (h *AuthHandler) SignupPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "signup.html", nil)
}

// Signup dispatches on the submitted role. Validation failures, including a
// doctor younger than the minimum age, are rejected before anything is
// persisted.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Invalid form submission.", "/signup")
		return
	}

	role := r.FormValue("userType")
	switch role {
	case entity.RolePatient:
		h.signupPatient(w, r)
	case entity.RoleDoctor:
		h.signupDoctor(w, r)
	default:
		h.flashRedirect(w, r, "danger", "Please select a valid account type.", "/signup")
	}
}

func (h *AuthHandler) signupPatient(w http.ResponseWriter, r *http.Request) {
	req := &dto.SignupPatientRequest{
		FullName:        r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Age:             atoi(r.FormValue("patient_age")),
		Gender:          r.FormValue("patient_gender"),
		Address:         r.FormValue("address"),
		Mobile:          r.FormValue("mobile"),
	}

	if err := h.validator.Validate(req); err != nil {
		h.flashRedirect(w, r, "danger", firstMessage(h.validator.FormatValidationErrors(err)), "/signup")
		return
	}

	if err := h.authUsecase.SignupPatient(r.Context(), req); err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			h.flashRedirect(w, r, "danger", "Email already registered.", "/signup")
		default:
			h.flashRedirect(w, r, "danger", "Signup failed, please try again.", "/signup")
		}
		return
	}

	h.flashRedirect(w, r, "success", "Signup successful. Please log in.", "/login")
}

func (h *AuthHandler) signupDoctor(w http.ResponseWriter, r *http.Request) {
	req := &dto.SignupDoctorRequest{
		FullName:        r.FormValue("name"),
		Email:           r.FormValue("email"),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirm_password"),
		Age:             atoi(r.FormValue("doctor_age")),
		Gender:          r.FormValue("doctor_gender"),
		Specialization:  r.FormValue("specialization"),
		Mobile:          r.FormValue("mobile"),
	}

	if err := h.validator.Validate(req); err != nil {
		msg := firstMessage(h.validator.FormatValidationErrors(err))
		if req.Age < entity.MinDoctorAge {
			msg = "Doctor must be at least 23 years old."
		}
		h.flashRedirect(w, r, "danger", msg, "/signup")
		return
	}

	if err := h.authUsecase.SignupDoctor(r.Context(), req); err != nil {
		switch err {
		case usecase.ErrEmailAlreadyExists:
			h.flashRedirect(w, r, "danger", "Email already registered.", "/signup")
		default:
			h.flashRedirect(w, r, "danger", "Signup failed, please try again.", "/signup")
		}
		return
	}

	h.flashRedirect(w, r, "success", "Signup successful. Please log in.", "/login")
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "login.html", nil)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Invalid form submission.", "/login")
		return
	}

	req := &dto.LoginRequest{
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		Role:     r.FormValue("role"),
	}

	if err := h.validator.Validate(req); err != nil {
		h.flashRedirect(w, r, "danger", firstMessage(h.validator.FormatValidationErrors(err)), "/login")
		return
	}

	session, err := h.authUsecase.Login(r.Context(), req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidCredentials:
			h.flashRedirect(w, r, "danger", "Invalid credentials or role mismatch.", "/login")
		default:
			h.flashRedirect(w, r, "danger", "Login failed, please try again.", "/login")
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.renderer.Flash(w, r, "success", "Login successful!")
	http.Redirect(w, r, "/"+session.User.Role+"/dashboard", http.StatusFound)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if identity, ok := middleware.GetIdentity(r.Context()); ok {
		if err := h.authUsecase.Logout(r.Context(), identity.UserID, identity.TokenID); err != nil {
			h.flashRedirect(w, r, "danger", "Logout failed, please try again.", "/")
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	h.flashRedirect(w, r, "success", "Logged out successfully.", "/login")
}

func (h *AuthHandler) ForgotPasswordPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.HTML(w, r, http.StatusOK, "forgot_password.html", nil)
}

// ForgotPassword only simulates a reset email; no reset token exists.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.flashRedirect(w, r, "danger", "Invalid form submission.", "/forgot_password")
		return
	}

	req := &dto.ForgotPasswordRequest{Email: r.FormValue("email")}
	if err := h.validator.Validate(req); err != nil {
		h.flashRedirect(w, r, "danger", firstMessage(h.validator.FormatValidationErrors(err)), "/forgot_password")
		return
	}

	found, err := h.authUsecase.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.flashRedirect(w, r, "danger", "Something went wrong, please try again.", "/forgot_password")
		return
	}

	if found {
		h.flashRedirect(w, r, "success", "Password reset link sent (simulated).", "/login")
	} else {
		h.flashRedirect(w, r, "danger", "Email not found.", "/login")
	}
}

func (h *AuthHandler) flashRedirect(w http.ResponseWriter, r *http.Request, level, message, target string) {
	h.renderer.Flash(w, r, level, message)
	http.Redirect(w, r, target, http.StatusFound)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func firstMessage(errors map[string]string) string {
	for _, msg := range errors {
		return msg
	}
	return "Please fill in all required fields."
}
