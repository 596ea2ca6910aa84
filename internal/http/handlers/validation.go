package handlers

import (
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Sri Lankan mobile numbers in E.164 form
var phonePattern = regexp.MustCompile(`^\+94\d{9}$`)

// RegisterValidators adds the custom tags used by request structs to gin's
// validator engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected validator engine")
	}
	if err := v.RegisterValidation("lkphone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
}

var fieldMessages = map[string]map[string]string{
	"Name": {
		"required": "Name is required",
		"notblank": "Name is required",
	},
	"Phone": {
		"required": "Phone number is required",
		"lkphone":  "Phone number must start with +94 and contain 9 digits",
	},
	"Email": {
		"required": "Email is required",
		"email":    "Please enter a valid email",
	},
	"Password": {
		"required": "Password is required",
		"min":      "Password must be at least 6 characters",
	},
	"ConfirmPassword": {
		"required": "Please confirm your password",
		"eqfield":  "Passwords do not match",
	},
}

// validationMessage describes the first failed rule in err.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if m, ok := fieldMessages[fe.StructField()][fe.Tag()]; ok {
			return m
		}
		return fe.Error()
	}
	return "bad request"
}
