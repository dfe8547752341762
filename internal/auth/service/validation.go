package service

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// bcrypt rejects input beyond 72 bytes, so the password cap must count
// bytes; validator's max tag counts runes and would let multibyte
// passwords through. Stronger password policy is left to deployments.
const passwordMaxBytes = 72

type credentials struct {
	Username string `validate:"required,max=64"`
	Password string `validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateCredentials(username, password string) error {
	c := credentials{Username: username, Password: password}
	if err := validate.Struct(c); err != nil {
		return ErrInvalidInput.WithCause(err)
	}
	if len(password) > passwordMaxBytes {
		return ErrInvalidInput.WithCause(fmt.Errorf("password exceeds %d bytes", passwordMaxBytes))
	}
	return nil
}
