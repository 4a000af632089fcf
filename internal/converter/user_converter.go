package converter

import (
	"medtrack/internal/delivery/dto"
	"medtrack/internal/domain/entity"
)

// UserToView converts a User entity (with its role profile preloaded) to a
// template view model.
func UserToView(user *entity.User) *dto.UserView {
	if user == nil {
		return nil
	}

	view := &dto.UserView{
		ID:        user.ID,
		Role:      user.Role,
		FullName:  user.FullName,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}

	if user.PatientProfile != nil {
		view.Age = user.PatientProfile.Age
		view.Gender = user.PatientProfile.Gender
		view.Address = user.PatientProfile.Address
		view.Mobile = user.PatientProfile.Mobile
	}
	if user.DoctorProfile != nil {
		view.Age = user.DoctorProfile.Age
		view.Gender = user.DoctorProfile.Gender
		view.Specialization = user.DoctorProfile.Specialization
		view.Mobile = user.DoctorProfile.Mobile
	}

	return view
}

// UsersToViews converts a slice of User entities to view models.
func UsersToViews(users []entity.User) []dto.UserView {
	views := make([]dto.UserView, len(users))
	for i, user := range users {
		view := UserToView(&user)
		if view != nil {
			views[i] = *view
		}
	}
	return views
}
