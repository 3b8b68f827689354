package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type SignUpRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type ConfirmSignUpRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code"  validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type SignUpResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	// ConfirmationCode is echoed outside production only; a managed pool
	// would deliver it by mail instead.
	ConfirmationCode string `json:"confirmationCode,omitempty"`
}

type SignInResponse struct {
	IDToken   string `json:"idToken"`
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	ExpiresIn int    `json:"expiresIn"` // seconds
}

type CurrentUserResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
