package validator

import (
	"net/mail"
	"sort"
	"strings"
)

const (
	PasswordMinLen = 8
	PasswordMaxLen = 16
)

type ValidationErrors map[string]string

func (v ValidationErrors) HasErrors() bool {
	return len(v) > 0
}

func (v ValidationErrors) Add(field, message string) {
	v[field] = message
}

// Error joins the field messages in a stable order so the same bad input
// always produces the same response body.
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(v))
	for _, f := range fields {
		msgs = append(msgs, v[f])
	}
	return strings.Join(msgs, "; ")
}

func ValidateSignup(name, email, password, passwordConfirm string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(name) == "" {
		errs.Add("name", "Please input your name")
	}

	validateEmail(email, errs)
	validateNewPassword(password, passwordConfirm, errs)

	return errs
}

func ValidateLogin(email, password string) ValidationErrors {
	errs := make(ValidationErrors)

	if strings.TrimSpace(email) == "" {
		errs.Add("email", "Please input your email and password")
	}
	if password == "" {
		errs.Add("password", "Please input your email and password")
	}

	return errs
}

func ValidatePasswordChange(passwordCurrent, password, passwordConfirm string) ValidationErrors {
	errs := make(ValidationErrors)

	if passwordCurrent == "" {
		errs.Add("passwordCurrent", "Please input your current password")
	}
	validateNewPassword(password, passwordConfirm, errs)

	return errs
}

func ValidateProfileUpdate(name, email *string) ValidationErrors {
	errs := make(ValidationErrors)

	if name != nil && strings.TrimSpace(*name) == "" {
		errs.Add("name", "Please input your name")
	}
	if email != nil {
		validateEmail(*email, errs)
	}

	return errs
}

func validateEmail(email string, errs ValidationErrors) {
	email = strings.TrimSpace(email)
	if email == "" {
		errs.Add("email", "Please input your email address")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs.Add("email", "Please input a valid email address")
	}
}

func validateNewPassword(password, passwordConfirm string, errs ValidationErrors) {
	switch {
	case password == "":
		errs.Add("password", "Please input your password")
	case len(password) < PasswordMinLen:
		errs.Add("password", "Password must be at least 8 characters")
	case len(password) > PasswordMaxLen:
		errs.Add("password", "Password must be at most 16 characters")
	}

	if password != passwordConfirm {
		errs.Add("passwordConfirm", "Please ensure the passwords are the same")
	}
}
