package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterEmailRequest is the body of POST /auth/register/email.
type RegisterEmailRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterEmailRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Nickname, validation.Required, validation.RuneLength(2, 20)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required, validation.RuneLength(3, 8)),
	)
}

// TokenPairResponse is returned by login and registration.
type TokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AccessTokenResponse is returned by POST /auth/token/access.
type AccessTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshTokenResponse is returned by POST /auth/token/refresh.
type RefreshTokenResponse struct {
	Refresh string `json:"refresh"`
}
