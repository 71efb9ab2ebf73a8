package types

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9\s-]{10,15}$`)
	linkedInPattern = regexp.MustCompile(`(?i)linkedin\.com/(in|company)/`)
)

// fieldMessages holds user-facing messages keyed by "<Struct>.<field>.<tag>",
// falling back to "<field>.<tag>".
var fieldMessages = map[string]string{
	"full_name.required":            "Full name is required",
	"full_name.min":                 "Full name must be at least 2 characters",
	"email.required":                "Invalid email",
	"email.email":                   "Invalid email",
	"login_email.required":          "Please enter a valid email address",
	"login_email.email":             "Please enter a valid email address",
	"login_password.required":       "Password is required",
	"login_password.min":            "Password must be at least 6 characters",
	"phone.phone":                   "Enter a valid phone number",
	"phone.min":                     "Please enter a valid phone number",
	"linkedin_profile_url.required": "Invalid LinkedIn URL",
	"linkedin_profile_url.url":      "Invalid LinkedIn URL",
	"linkedin_profile_url.linkedin": "Must be a valid LinkedIn profile/company URL",
	"description.required":          "Description is required",

	"ApplicationForm.phone.min": "Phone is required",
	"ApplicationForm.phone.max": "Too long",

	"ProfileUpdate.linkedin_profile_url.url": "Please enter a valid LinkedIn URL",
}

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("linkedin", func(fl validator.FieldLevel) bool {
		return linkedInPattern.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks a form struct and returns FieldErrors when any field fails.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(FieldErrors, len(verrs))
	for _, ve := range verrs {
		if _, seen := out[ve.Field()]; seen {
			continue
		}
		out[ve.Field()] = messageFor(ve)
	}
	return out
}

func messageFor(ve validator.FieldError) string {
	structName := strings.SplitN(ve.Namespace(), ".", 2)[0]
	if msg, ok := fieldMessages[structName+"."+ve.Field()+"."+ve.Tag()]; ok {
		return msg
	}
	if msg, ok := fieldMessages[ve.Field()+"."+ve.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid (%s)", ve.Field(), ve.Tag())
}

// Validate validates the RegisterRequest.
func (r *RegisterRequest) Validate() error {
	return Validate(r)
}

// Validate validates the LoginRequest.
func (r *LoginRequest) Validate() error {
	return Validate(r)
}

// Validate validates the ProfileUpdate.
func (u *ProfileUpdate) Validate() error {
	return Validate(u)
}

// Validate validates the text fields of the ApplicationForm. File limits are checked by the caller.
func (f *ApplicationForm) Validate() error {
	return Validate(f)
}
