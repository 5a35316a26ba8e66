package auth

import (
	"fmt"
	"learning-lab/domain/chat"
	"learning-lab/errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type identityClaim struct {
	Username string `validate:"required,max=64"`
}

// ParseIdentity validates the username claimed by a chat connection.
func ParseIdentity(raw string) (chat.Identity, error) {
	claim := identityClaim{Username: strings.TrimSpace(raw)}
	if claim.Username == "" {
		return "", errors.ErrMissingIdentity
	}
	if err := validate.Struct(claim); err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrInvalidIdentity, err)
	}
	return chat.Identity(claim.Username), nil
}
