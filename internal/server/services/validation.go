package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophblog/internal/common"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// bcrypt ignores input past 72 bytes, so longer passwords are refused
// rather than silently truncated.
const maxPasswordBytes = 72

// RegisterInput is what a new user submits.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in RegisterInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&in.Email, validation.Required, validation.Length(0, 100), is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(3, 0), validation.By(maxBytes(maxPasswordBytes))),
	)
}

// PostInput is the editable part of a post.
type PostInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (in PostInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&in.Content, validation.Required),
	)
}

func maxBytes(n int) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	}
}

// validationError tags ozzo errors with common.ErrorValidation so the
// transport can map them without knowing about ozzo.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return err
	}
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}
