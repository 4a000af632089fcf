package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AppointmentsCreated counts successful appointment bookings.
	AppointmentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medtrack_appointments_created_total",
			Help: "Total appointments booked",
		},
	)

	// DiagnosesSubmitted counts completed appointment transitions.
	DiagnosesSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medtrack_diagnoses_submitted_total",
			Help: "Total appointments transitioned to completed",
		},
	)

	// NotificationsTotal tracks notification dispatch outcomes by channel and status.
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtrack_notifications_total",
			Help: "Notification dispatch attempts by channel (email/topic) and status (sent/failed/dropped)",
		},
		[]string{"channel", "status"},
	)

	// LoginsTotal tracks login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medtrack_logins_total",
			Help: "Login attempts by status (success/failure)",
		},
		[]string{"status"},
	)
)
