// Package validation checks form input before anything is sent to the API.
//
// A failed check yields *Error, which lists every offending field in form
// order. It is deliberately a different type from the API's remote errors so
// callers can tell "fix your input" from "the server said no":
//
//	var verr *validation.Error
//	if errors.As(err, &verr) {
//	    fmt.Println(verr.Fields[0].Message)
//	}
package validation

import (
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/mindeducation/internal/client/models"
)

const (
	FieldEmailOrCpf      = "emailOrCpf"
	FieldEmail           = "email"
	FieldName            = "name"
	FieldCpf             = "cpf"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"

	minNameLength     = 3
	minPasswordLength = 6
)

type FieldError struct {
	Field   string
	Message string
}

type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return e.Fields[0].Message
}

// Messages returns field → message, keeping the first message per field.
func (e *Error) Messages() map[string]string {
	out := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		if _, ok := out[f.Field]; !ok {
			out[f.Field] = f.Message
		}
	}
	return out
}

func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type collector struct {
	fields []FieldError
}

func (c *collector) add(field, msg string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: msg})
}

func (c *collector) err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return &Error{Fields: c.fields}
}

func (c *collector) email(v string) {
	switch {
	case strings.TrimSpace(v) == "":
		c.add(FieldEmail, "Email is required")
	case !ValidEmail(v):
		c.add(FieldEmail, "Email must be valid")
	}
}

func (c *collector) name(v string) {
	switch {
	case strings.TrimSpace(v) == "":
		c.add(FieldName, "Name is required")
	case utf8.RuneCountInString(strings.TrimSpace(v)) < minNameLength:
		c.add(FieldName, "Name is too short")
	}
}

func (c *collector) cpf(v string) {
	switch {
	case strings.TrimSpace(v) == "":
		c.add(FieldCpf, "CPF is required")
	case !ValidCPF(v):
		c.add(FieldCpf, "Invalid CPF")
	}
}

func (c *collector) passwordLength(v string) {
	if utf8.RuneCountInString(v) < minPasswordLength {
		c.add(FieldPassword, "Password must have at least 6 characters")
	}
}

// Login requires both the identifier (e-mail or CPF) and the password.
func Login(c models.Credentials) error {
	var v collector
	if strings.TrimSpace(c.Identifier) == "" {
		v.add(FieldEmailOrCpf, "Email or CPF is required")
	}
	if c.Password == "" {
		v.add(FieldPassword, "Password is required")
	}
	return v.err()
}

func Register(f models.RegisterForm) error {
	var v collector
	v.email(f.Email)
	v.name(f.Name)
	v.cpf(f.Cpf)
	if f.Password == "" {
		v.add(FieldPassword, "Password is required")
	} else {
		v.passwordLength(f.Password)
	}
	if f.ConfirmPassword != f.Password {
		v.add(FieldConfirmPassword, "Passwords must match")
	}
	return v.err()
}

// Profile is Register with an optional password: when it is left empty the
// confirmation is not required either.
func Profile(f models.ProfileForm) error {
	var v collector
	v.email(f.Email)
	v.name(f.Name)
	v.cpf(f.Cpf)
	if f.Password != "" {
		v.passwordLength(f.Password)
		switch {
		case f.ConfirmPassword == "":
			v.add(FieldConfirmPassword, "Password confirmation is required")
		case f.ConfirmPassword != f.Password:
			v.add(FieldConfirmPassword, "Passwords must match")
		}
	}
	return v.err()
}

func ForgotPassword(email string) error {
	var v collector
	v.email(email)
	return v.err()
}

// ValidEmail accepts a bare address with a dotted domain.
func ValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	domain := s[at+1:]
	return strings.Contains(domain, ".") && !strings.HasSuffix(domain, ".")
}

// ValidCPF checks a Brazilian CPF number. Non-digit characters (the usual
// "000.000.000-00" punctuation) are ignored; the eleven digits must not all
// be equal and both check digits must match.
func ValidCPF(s string) bool {
	digits := make([]int, 0, 11)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, int(r-'0'))
		}
	}
	if len(digits) != 11 {
		return false
	}

	same := true
	for _, d := range digits[1:] {
		if d != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	return checkDigit(digits[:9]) == digits[9] && checkDigit(digits[:10]) == digits[10]
}

func checkDigit(digits []int) int {
	sum := 0
	weight := len(digits) + 1
	for _, d := range digits {
		sum += d * weight
		weight--
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}
