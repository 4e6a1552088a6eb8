package dto

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username   string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=8,max=100"`
	FirstName  string `json:"firstName" binding:"omitempty,max=50"`
	LastName   string `json:"lastName" binding:"omitempty,max=50"`
	Department string `json:"department" binding:"omitempty,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// ChangePasswordRequest carries the old and new password; the old one is
// verified against the stored hash before anything changes
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=100"`
}

// UpdateProfileRequest is the explicit whitelist of self-service profile
// fields. Anything else in the request body is ignored by shape.
type UpdateProfileRequest struct {
	FirstName  *string `json:"firstName" binding:"omitempty,max=50"`
	LastName   *string `json:"lastName" binding:"omitempty,max=50"`
	Username   *string `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Avatar     *string `json:"avatar" binding:"omitempty,max=500"`
	Department *string `json:"department" binding:"omitempty,max=100"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8,max=100"`
}

// TokenResponse is the issued access/refresh pair
type TokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int    `json:"expiresIn"` // access token lifetime in seconds
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User   UserResponse  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
