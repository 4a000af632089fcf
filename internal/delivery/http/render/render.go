package render

import (
	"encoding/gob"
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"
)

const flashSessionName = "medtrack_flash"

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Level   string
	Message string
}

func init() {
	// gorilla/sessions serializes flash values with gob.
	gob.Register(Flash{})
}

// Page is the envelope every template receives.
type Page struct {
	Flashes []Flash
	Data    interface{}
	Now     time.Time
}

var pageNames = []string{
	"index.html",
	"signup.html",
	"login.html",
	"forgot_password.html",
	"patient_dashboard.html",
	"doctor_dashboard.html",
	"book_appointment.html",
	"view_appointment_patient.html",
	"view_appointment_doctor.html",
	"patient_profile.html",
	"doctor_profile.html",
	"404.html",
	"500.html",
}

// Renderer owns the parsed page templates and the cookie store used for
// flash messages.
type Renderer struct {
	templates  map[string]*template.Template
	flashStore *sessions.CookieStore
}

// NewRenderer parses all page templates from dir once at startup.
func NewRenderer(dir, secret string) (*Renderer, error) {
	templates := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFiles(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		templates[name] = tmpl
	}
	return newRenderer(templates, secret), nil
}

// NewRendererWithTemplates builds a renderer from pre-parsed templates.
func NewRendererWithTemplates(templates map[string]*template.Template, secret string) *Renderer {
	return newRenderer(templates, secret)
}

func newRenderer(templates map[string]*template.Template, secret string) *Renderer {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Renderer{templates: templates, flashStore: store}
}

// HTML renders the named page, draining any pending flash messages into it.
func (rd *Renderer) HTML(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	tmpl, ok := rd.templates[name]
	if !ok {
		logrus.Errorf("Unknown template: %s", name)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	page := Page{
		Flashes: rd.popFlashes(w, r),
		Data:    data,
		Now:     time.Now(),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := tmpl.Execute(w, page); err != nil {
		logrus.Errorf("Failed to render template %s: %+v", name, err)
	}
}

// Flash queues a message for the next rendered page.
func (rd *Renderer) Flash(w http.ResponseWriter, r *http.Request, level, message string) {
	session, err := rd.flashStore.Get(r, flashSessionName)
	if err != nil {
		// A corrupt cookie just means a fresh session.
		logrus.Warnf("Failed to get flash session: %+v", err)
	}
	session.AddFlash(Flash{Level: level, Message: message})
	if err := session.Save(r, w); err != nil {
		logrus.Warnf("Failed to save flash session: %+v", err)
	}
}

func (rd *Renderer) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	session, err := rd.flashStore.Get(r, flashSessionName)
	if err != nil {
		return nil
	}

	raw := session.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := session.Save(r, w); err != nil {
		logrus.Warnf("Failed to clear flash session: %+v", err)
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	return flashes
}
