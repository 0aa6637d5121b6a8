// internal/utils/validator_test.go
package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type quoteForm struct {
	FirstName   string  `json:"first_name" validate:"required,person_name"`
	Email       string  `json:"email" validate:"required,email"`
	Phone       string  `json:"phone" validate:"required,phone_digits"`
	DateOfBirth string  `json:"date_of_birth" validate:"required,applicant_age"`
	Height      float64 `json:"height" validate:"required,height_feet_inches"`
	Weight      float64 `json:"weight" validate:"required,min=50,max=500"`
}

func validForm() quoteForm {
	return quoteForm{
		FirstName:   "Maria",
		Email:       "maria@example.com",
		Phone:       "(555) 123-4567",
		DateOfBirth: "1985-06-15",
		Height:      5.8,
		Weight:      150,
	}
}

func TestValidateStructAcceptsValidForm(t *testing.T) {
	assert.NoError(t, ValidateStruct(validForm()))
}

func TestValidateStructAccumulatesAllErrors(t *testing.T) {
	form := quoteForm{
		FirstName:   "X",
		Email:       "not-an-email",
		Phone:       "555",
		DateOfBirth: "2020-01-01",
		Height:      9.0,
		Weight:      20,
	}

	errs := GetValidationErrors(ValidateStruct(form))
	assert.Len(t, errs, 6)

	fields := make(map[string]string)
	for _, e := range errs {
		fields[e.Field] = e.Tag
	}
	assert.Equal(t, "person_name", fields["first_name"])
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "phone_digits", fields["phone"])
	assert.Equal(t, "applicant_age", fields["date_of_birth"])
	assert.Equal(t, "height_feet_inches", fields["height"])
	assert.Equal(t, "min", fields["weight"])
}

func TestValidationErrorsUseJSONFieldNames(t *testing.T) {
	form := validForm()
	form.Email = "bad"

	errs := GetValidationErrors(ValidateStruct(form))
	assert.Len(t, errs, 1)
	assert.Equal(t, "email", errs[0].Field)
}

func TestPhoneDigitsIgnoresFormatting(t *testing.T) {
	form := validForm()

	for _, phone := range []string{"5551234567", "(555) 123-4567", "+1 555 123 4567", "555.123.4567"} {
		form.Phone = phone
		assert.NoError(t, ValidateStruct(form), "phone %q should validate", phone)
	}

	for _, phone := range []string{"555-1234", "abc", ""} {
		form.Phone = phone
		assert.Error(t, ValidateStruct(form), "phone %q should fail", phone)
	}
}

func TestApplicantAgeBounds(t *testing.T) {
	form := validForm()
	now := time.Now()

	dobAtAge := func(age int) string {
		return now.AddDate(-age, 0, -1).Format("2006-01-02")
	}

	form.DateOfBirth = dobAtAge(18)
	assert.NoError(t, ValidateStruct(form))

	form.DateOfBirth = dobAtAge(85)
	assert.NoError(t, ValidateStruct(form))

	form.DateOfBirth = dobAtAge(17)
	assert.Error(t, ValidateStruct(form))

	form.DateOfBirth = dobAtAge(86)
	assert.Error(t, ValidateStruct(form))

	form.DateOfBirth = "not-a-date"
	assert.Error(t, ValidateStruct(form))
}

func TestHeightToInches(t *testing.T) {
	cases := []struct {
		height float64
		inches int
		ok     bool
	}{
		{5.8, 68, true},
		{5.11, 71, true},
		{5.0, 60, true},
		{6.2, 74, true},
		{3.0, 36, true},
		{8.0, 96, true},
		{5.12, 0, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%.2f", tc.height), func(t *testing.T) {
			inches, ok := HeightToInches(tc.height)
			assert.Equal(t, tc.ok, ok)
			if tc.ok {
				assert.Equal(t, tc.inches, inches)
			}
		})
	}
}

func TestHeightValidationRange(t *testing.T) {
	form := validForm()

	form.Height = 2.9
	assert.Error(t, ValidateStruct(form))

	form.Height = 8.1
	assert.Error(t, ValidateStruct(form))

	form.Height = 4.6
	assert.NoError(t, ValidateStruct(form))
}
