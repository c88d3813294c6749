// Package forms defines the declarative input schemas of every form in the
// app and maps validation failures to the Polish user-facing messages.
// Validation always runs before any network call: a form that fails here
// never reaches the API client or the auth provider.
package forms

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	// strongpw: at least one uppercase letter and one digit. Length is
	// checked separately by min so each failure gets its own message.
	validate.RegisterValidation("strongpw", func(fl validator.FieldLevel) bool {
		var upper, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && digit
	})
}

// LoginForm collects sign-in credentials.
type LoginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// RegisterForm collects new-account details. ConfirmPassword must match
// Password regardless of whether the other fields validate.
type RegisterForm struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8,strongpw"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// ResetRequestForm starts the password-recovery flow.
type ResetRequestForm struct {
	Email string `validate:"required,email"`
}

// UpdatePasswordForm finishes the recovery flow with a new password.
type UpdatePasswordForm struct {
	Password        string `validate:"required,min=8,strongpw"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// GenerationForm carries the source text for AI generation. Bounds are in
// characters (runes), matching what the backend accepts.
type GenerationForm struct {
	SourceText string `validate:"required,min=1000,max=10000"`
}

// FlashcardEditForm edits a single card in place.
type FlashcardEditForm struct {
	Front string `validate:"required,max=200"`
	Back  string `validate:"required,max=500"`
}

// FieldErrors maps struct field names to user-facing messages.
type FieldErrors map[string]string

// Has reports whether the field failed validation.
func (fe FieldErrors) Has(field string) bool {
	_, ok := fe[field]
	return ok
}

// Get returns the message for a field, or "".
func (fe FieldErrors) Get(field string) string {
	return fe[field]
}

// Validate checks a form against its schema. The returned map is empty when
// the form is valid.
func Validate(form any) FieldErrors {
	errs := FieldErrors{}
	err := validate.Struct(form)
	if err == nil {
		return errs
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["Form"] = MsgGenericInvalid
		return errs
	}
	for _, fieldErr := range validationErrs {
		field := fieldErr.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		errs[field] = messageFor(field, fieldErr.Tag(), fieldErr.Param())
	}
	return errs
}
