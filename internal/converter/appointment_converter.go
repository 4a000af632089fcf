package converter

import (
	"medtrack/internal/delivery/dto"
	"medtrack/internal/domain/entity"
)

// AppointmentToView converts an Appointment entity to a template view model.
func AppointmentToView(appointment *entity.Appointment) *dto.AppointmentView {
	if appointment == nil {
		return nil
	}

	view := &dto.AppointmentView{
		ID:            appointment.ID,
		Date:          appointment.Date,
		Time:          appointment.Time,
		Symptoms:      appointment.Symptoms,
		Status:        string(appointment.Status),
		Diagnosis:     appointment.Diagnosis,
		TreatmentPlan: appointment.TreatmentPlan,
		Prescription:  appointment.Prescription,
		CompletedAt:   appointment.CompletedAt,
		CreatedAt:     appointment.CreatedAt,
	}

	if appointment.Patient.Email != "" {
		view.PatientName = appointment.Patient.FullName
		view.PatientEmail = appointment.Patient.Email
	}
	if appointment.Doctor.Email != "" {
		view.DoctorName = appointment.Doctor.FullName
		view.DoctorEmail = appointment.Doctor.Email
		if appointment.Doctor.DoctorProfile != nil {
			view.Specialization = appointment.Doctor.DoctorProfile.Specialization
		}
	}

	return view
}

// AppointmentsToViews converts a slice of Appointment entities to view models.
func AppointmentsToViews(appointments []entity.Appointment) []dto.AppointmentView {
	views := make([]dto.AppointmentView, len(appointments))
	for i, appointment := range appointments {
		view := AppointmentToView(&appointment)
		if view != nil {
			views[i] = *view
		}
	}
	return views
}
