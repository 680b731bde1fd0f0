package handler

import "hrportal/internal/identity/models"

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

type handleRequestRequest struct {
	UserID string `json:"user_id"`
	Action string `json:"action"`
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type completeProfileRequest struct {
	Designation      string `json:"designation"`
	Process          string `json:"process"`
	DateOfJoining    string `json:"date_of_joining"`
	ShiftTiming      string `json:"shift_timing"`
	WorkLocation     string `json:"work_location"`
	CurrentCity      string `json:"current_city"`
	SystemServiceTag string `json:"system_service_tag"`
	EmploymentType   string `json:"employment_type"`
	HoldingAssets    string `json:"holding_assets"`
	ManagerEmail     string `json:"manager_email"`
}

func (r completeProfileRequest) profile() models.Profile {
	return models.Profile{
		Designation:      r.Designation,
		Process:          r.Process,
		DateOfJoining:    r.DateOfJoining,
		ShiftTiming:      r.ShiftTiming,
		WorkLocation:     r.WorkLocation,
		CurrentCity:      r.CurrentCity,
		SystemServiceTag: r.SystemServiceTag,
		EmploymentType:   r.EmploymentType,
		HoldingAssets:    r.HoldingAssets,
	}
}

type updateProfileRequest struct {
	Name         *string                 `json:"name,omitempty"`
	Phone        *string                 `json:"phone,omitempty"`
	Profile      *completeProfileRequest `json:"profile,omitempty"`
	ManagerEmail *string                 `json:"manager_email,omitempty"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}
