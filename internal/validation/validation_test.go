package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type form struct {
	Name            string `json:"name" validate:"notblank"`
	Email           string `json:"email" validate:"notblank,email,max=254"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword,omitempty" validate:"omitempty,eqfield=Password"`
}

func validForm() form {
	return form{Name: "An", Email: "an@example.com", Password: "secret1"}
}

func TestStruct_ValidEmails(t *testing.T) {
	validEmails := []string{
		"test@example.com",
		"user.name@domain.org",
		"user+tag@example.com",
		"user123@test.co.jp",
		"user_name@domain.com",
		"USER@EXAMPLE.COM",
		"test@subdomain.example.com",
	}

	for _, email := range validEmails {
		t.Run(email, func(t *testing.T) {
			f := validForm()
			f.Email = email
			assert.NoError(t, Struct(f).Err())
		})
	}
}

func TestStruct_InvalidEmails(t *testing.T) {
	invalidEmails := []string{
		"notanemail",
		"@example.com",
		"user@",
		"user@domain",
		"user space@example.com",
		strings.Repeat("a", 250) + "@example.com",
	}

	for _, email := range invalidEmails {
		t.Run(email, func(t *testing.T) {
			f := validForm()
			f.Email = email
			errs := Struct(f)
			assert.True(t, errs.Has("email"), "Expected %s to be invalid", email)
			assert.Len(t, errs, 1)
		})
	}
}

func TestStruct_Messages(t *testing.T) {
	errs := Struct(form{Name: "  ", Email: "nope", ConfirmPassword: "x"})

	assert.Equal(t, Errors{
		"name":            "name is required",
		"email":           "email is invalid",
		"password":        "password is required",
		"confirmPassword": "confirm password does not match",
	}, errs)

	assert.Equal(t, "email is required", Struct(form{Name: "An", Password: "p"})["email"])
}

func TestStruct_NotAStruct(t *testing.T) {
	errs := Struct("plain string")
	assert.True(t, errs.Has("form"))
}

func TestErrors(t *testing.T) {
	errs := Errors{}
	assert.NoError(t, errs.Err())

	errs.Add("name", "name is required")
	errs.Add("email", "email is invalid")
	errs.Add("name", "second message is ignored")

	err := errs.Err()
	require.Error(t, err)

	var fieldErrs Errors
	assert.True(t, errors.As(err, &fieldErrs))
	assert.Equal(t, Errors{"name": "name is required", "email": "email is invalid"}, fieldErrs)
	assert.Equal(t, "validation failed: email: email is invalid; name: name is required", err.Error())
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "payment method", humanize("paymentMethod"))
	assert.Equal(t, "name", humanize("name"))
}
