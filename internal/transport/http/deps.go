package http

import (
	"github.com/moodcircle-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/moodcircle-api/internal/infrastructure/jwt"
	"github.com/moodcircle-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	OTPRepo          *dynamo.OTPRepo
	RefreshTokenRepo *dynamo.RefreshTokenRepo
	Mailer           smtp.Mailer
	JWTProvider      *jwtinfra.Provider
}
