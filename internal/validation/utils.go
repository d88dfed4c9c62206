package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/rwidyatama/go-genai-service/internal/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate themselves.
//
// Typical pattern: a request struct with validator tags implements
// Validate() by running validator.Struct on itself, returning
// validator.ValidationErrors (or CustomValidationErrors for rules tags
// cannot express).
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a field
// that tag-based validation cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors satisfying error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// BindAndValidate binds request data into payload and validates it.
//
// payload must be a pointer so echo's Bind can populate it. Binding errors
// and validation failures both surface as 400 HTTPErrors; validation
// failures additionally carry per-field errors.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		return errs.NewBadRequestError(bindErrorMessage(err), false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

// bindErrorMessage extracts the human part of echo's bind error, which is
// formatted as "code=400, message=<detail>, internal=...". Falls back to a
// generic message when the format is unexpected.
func bindErrorMessage(err error) string {
	if echoErr, ok := err.(*echo.HTTPError); ok {
		if msg, ok := echoErr.Message.(string); ok && msg != "" {
			return msg
		}
	}
	return "Malformed request body"
}

// validateStruct calls v.Validate() and extracts field errors on failure.
func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		var customErrors CustomValidationErrors
		if ok := errorsAs(err, &customErrors); ok {
			for _, cerr := range customErrors {
				fieldErrors = append(fieldErrors, errs.FieldError{
					Field: cerr.Field,
					Error: cerr.Message,
				})
			}
			return "Validation failed", fieldErrors
		}
		// Unknown validation error type: surface as a single message.
		return err.Error(), []errs.FieldError{}
	}

	for _, verr := range validationErrors {
		field := strings.ToLower(verr.Field())
		var msg string

		switch verr.Tag() {
		case "required":
			msg = "is required"

		case "min":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", verr.Param())
			}

		case "max":
			if verr.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", verr.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", verr.Param())
			}

		case "gte":
			msg = fmt.Sprintf("must be at least %s", verr.Param())

		case "lte":
			msg = fmt.Sprintf("must not exceed %s", verr.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", verr.Param())

		case "email":
			msg = "must be a valid email address"

		case "uuid":
			msg = "must be a valid UUID"

		case "url":
			msg = "must be a valid URL"

		case "dive":
			msg = "some items are invalid"

		default:
			if verr.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, verr.Tag(), verr.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, verr.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// errorsAs is a tiny helper so extractValidationError can try a non-pointer
// error target without importing errors at every call site.
func errorsAs(err error, target *CustomValidationErrors) bool {
	cerr, ok := err.(CustomValidationErrors)
	if ok {
		*target = cerr
	}
	return ok
}

// uuidRegex matches the standard UUID text format.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// IsValidUUID checks whether a string matches UUID format. Format only; it
// does not validate version/variant semantics.
func IsValidUUID(uuid string) bool {
	return uuidRegex.MatchString(uuid)
}
