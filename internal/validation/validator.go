package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"user-management-be/internal/entities"
)

const minPasswordLength = 8

// specialCharacters is the set of symbols accepted by the password rule.
const specialCharacters = `!@#$%^&*(),.?":{}|<>`

var (
	digitPattern     = regexp.MustCompile(`[0-9]`)
	upperPattern     = regexp.MustCompile(`[A-Z]`)
	lowerPattern     = regexp.MustCompile(`[a-z]`)
	phoneNumberRegex = regexp.MustCompile(`^\+?1?[0-9]{9,15}$`)
)

// Error describes a single invalid field of a request.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePassword checks password strength. Rules are evaluated in a fixed
// order (length, digit, uppercase, lowercase, special) and the first failing
// rule is reported.
func ValidatePassword(password string) error {
	switch {
	case utf8.RuneCountInString(password) < minPasswordLength:
		return &Error{Field: "password", Message: "Password must be at least 8 characters long"}
	case !digitPattern.MatchString(password):
		return &Error{Field: "password", Message: "Password must contain at least one digit"}
	case !upperPattern.MatchString(password):
		return &Error{Field: "password", Message: "Password must contain at least one uppercase letter"}
	case !lowerPattern.MatchString(password):
		return &Error{Field: "password", Message: "Password must contain at least one lowercase letter"}
	case !strings.ContainsAny(password, specialCharacters):
		return &Error{Field: "password", Message: "Password must contain at least one special character"}
	}
	return nil
}

// ValidatePhone accepts an optional "+", an optional "1" and 9 to 15 digits.
func ValidatePhone(phone string) error {
	if !phoneNumberRegex.MatchString(phone) {
		return &Error{Field: "phone_number", Message: "Invalid phone number format"}
	}
	return nil
}

// New returns a standalone validator that understands the same `binding`
// tags gin uses, including the custom password, phone and gender rules.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	Register(v)
	return v
}

// Register installs the custom rules and JSON field naming on v.
func Register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonFieldName)
	// Registration only fails for empty tags or nil functions.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidatePassword(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidatePhone(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return entities.Gender(fl.Field().String()).Valid()
	})
}

var registerGinOnce sync.Once

// RegisterGin installs the custom rules on gin's binding validator. It is
// safe to call more than once.
func RegisterGin() {
	registerGinOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			Register(v)
		}
	})
}

// Translate turns a binding/validation failure into an *Error describing the
// first invalid field. It returns nil when err is not a validation failure
// (for example malformed JSON).
func Translate(err error) *Error {
	var vErr *Error
	if errors.As(err, &vErr) {
		return vErr
	}

	var sliceErrs binding.SliceValidationError
	if errors.As(err, &sliceErrs) {
		for _, itemErr := range sliceErrs {
			if translated := Translate(itemErr); translated != nil {
				return translated
			}
		}
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return nil
	}
	return fromFieldError(fieldErrs[0])
}

func fromFieldError(fe validator.FieldError) *Error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return &Error{Field: field, Message: fmt.Sprintf("%s is required", field)}
	case "email":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be a valid email address", field)}
	case "password":
		if err := ValidatePassword(stringValue(fe.Value())); err != nil {
			return err.(*Error)
		}
	case "phone":
		return &Error{Field: field, Message: "Invalid phone number format"}
	case "gender":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be one of: %s, %s", field, entities.GenderMale, entities.GenderFemale)}
	case "min":
		return &Error{Field: field, Message: fmt.Sprintf("%s must be at least %s", field, fe.Param())}
	}
	return &Error{Field: field, Message: fmt.Sprintf("%s is invalid", field)}
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case *string:
		if s != nil {
			return *s
		}
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}

// jsonFieldName reports fields by their JSON (or query) name so error
// messages match what the client sent.
func jsonFieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return field.Name
}
