// internal/utils/validator.go
package utils

import (
	"math"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("person_name", validatePersonName)
	validate.RegisterValidation("phone_digits", validatePhoneDigits)
	validate.RegisterValidation("applicant_age", validateApplicantAge)
	validate.RegisterValidation("height_feet_inches", validateHeightFeetInches)

	// Report json field names so error payloads match the wire format.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

func validatePersonName(fl validator.FieldLevel) bool {
	return len(strings.TrimSpace(fl.Field().String())) >= 2
}

// At least 10 digits once every non-digit character is stripped.
func validatePhoneDigits(fl validator.FieldLevel) bool {
	digits := 0
	for _, r := range fl.Field().String() {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 10
}

// Applicants must be 18-85 inclusive at submission time. The field is a
// date string in YYYY-MM-DD form.
func validateApplicantAge(fl validator.FieldLevel) bool {
	dob, err := time.Parse("2006-01-02", fl.Field().String())
	if err != nil {
		return false
	}

	now := time.Now()
	age := now.Year() - dob.Year()
	anniversary := time.Date(now.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	return age >= 18 && age <= 85
}

// Height uses the feet.inches encoding (5.8 reads as 5'8"). Valid values lie
// in 3.0-8.0 and must resolve to 36-96 total inches.
func validateHeightFeetInches(fl validator.FieldLevel) bool {
	v := fl.Field().Float()
	if v < 3.0 || v > 8.0 {
		return false
	}

	total, ok := HeightToInches(v)
	return ok && total >= 36 && total <= 96
}

// HeightToInches resolves the feet.inches encoding to total inches. The
// hundredths digit pair disambiguates 5.11 (5'11") from 5.8 (5'8").
func HeightToInches(v float64) (int, bool) {
	feet := int(v)
	hundredths := int(math.Round((v - float64(feet)) * 100))

	inches := hundredths
	if hundredths%10 == 0 {
		inches = hundredths / 10
	}
	if inches < 0 || inches > 11 {
		return 0, false
	}
	return feet*12 + inches, true
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// GetValidationErrors flattens a validator error into one entry per failing
// field, so the caller sees every problem at once rather than the first.
func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   e.Field(),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "person_name":
		return e.Field() + " must be at least 2 characters"
	case "phone_digits":
		return "Phone number must contain at least 10 digits"
	case "applicant_age":
		return "Applicant must be between 18 and 85 years old"
	case "height_feet_inches":
		return "Height must be between 3'0\" and 8'0\" in feet.inches form"
	default:
		return e.Field() + " is invalid"
	}
}
