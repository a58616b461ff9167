package handlers

import (
	"errors"
	"location-tracker-service/internal/api/dto"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, dto.ErrorResponse{Error: msg})
}

// Validator checks request DTOs and renders failures in English.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		slog.Warn("register validation translations", "error", err)
	}

	return &Validator{validate: validate, trans: trans}
}

func (v *Validator) translate(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, e.Translate(v.trans))
	}
	return out
}

// bind decodes and validates the request body into dst. On failure the
// error response has been written and false is returned.
func (v *Validator) bind(w http.ResponseWriter, r *http.Request, dst render.Binder) bool {
	if err := render.Bind(r, dst); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request: "+err.Error())
		return false
	}

	if err := v.validate.Struct(dst); err != nil {
		writeJSON(w, r, http.StatusBadRequest, dto.ErrorResponse{
			Error:      "invalid request",
			Validation: v.translate(err),
		})
		return false
	}

	return true
}
