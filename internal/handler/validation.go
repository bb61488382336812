package handler

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"moonflix/internal/errors"
	"moonflix/internal/model"
)

// RegisterValidations adds the request rules used by the handlers to v and
// makes field errors report JSON field names.
func RegisterValidations(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := model.ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	// bcrypt rejects input longer than 72 bytes; max counts runes.
	return v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
}

// fieldMessages maps field and failed tag to the message returned to clients.
// An empty tag matches any tag of that field.
var fieldMessages = map[string]map[string]string{
	"username": {
		"alphanum": "Username contains non alphanumeric characters - not allowed.",
		"":         "Username is required. Min: 5 characters.",
	},
	"password": {
		"maxbytes": "Password must not exceed 72 bytes.",
		"":         "Password must contain at least 8 characters.",
	},
	"email": {
		"": "Email does not appear to be valid",
	},
	"birthday": {
		"": "Birthday must be a valid date in the format YYYY-MM-DD",
	},
}

// sensitiveFields are never echoed back in a field error.
var sensitiveFields = map[string]bool{"password": true}

// validationError turns the result of c.Validate into a 422 listing every
// violated field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return invalidRequest(err.Error())
	}

	fields := make([]errors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, toFieldError(fe))
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity, errors.NewValidationErrorResponse(fields))
}

func toFieldError(fe validator.FieldError) errors.FieldError {
	field := fe.Field()
	msg := fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	if byTag, ok := fieldMessages[field]; ok {
		if m, ok := byTag[fe.Tag()]; ok {
			msg = m
		} else if m, ok := byTag[""]; ok {
			msg = m
		}
	}

	out := errors.FieldError{Field: field, Message: msg}
	if !sensitiveFields[field] {
		out.Value = fmt.Sprint(fe.Value())
	}
	return out
}
