package models

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type LoginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type VisibilityRequest struct {
	CurrentIsHidden bool `form:"current_is_hidden" json:"current_is_hidden"`
}
