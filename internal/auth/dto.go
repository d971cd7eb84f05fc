package auth

import "github.com/google/uuid"

// LoginRequest carries the admin credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminSummary is the public shape of an admin account.
type AdminSummary struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// LoginResponse carries the minted access token and its owner.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresIn   int64        `json:"expires_in"`
	Admin       AdminSummary `json:"admin"`
}
