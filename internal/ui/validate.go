package ui

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/session"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	slotTag     = "slot"
	colorTag    = "color"
	notBlankTag = "notblank"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report flag names instead of Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("flag")
	})

	_ = validate.RegisterValidation(slotTag, slotValidation)
	_ = validate.RegisterValidation(colorTag, colorValidation)
	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	registerCustomTranslations(slotTag, colorTag, notBlankTag)
}

// registerCustomTranslations gives custom tags readable messages. The
// default translations are already registered, so the register func is a
// no-op.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustomErr)
	}
}

func translateCustomErr(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case slotTag:
		return fmt.Sprintf("--%s must be HH:MM on the 10 minute grid between 06:00 and 01:50, got %q", fe.Field(), fe.Value())
	case colorTag:
		return fmt.Sprintf("--%s must be one of %s, got %q", fe.Field(), colorList(), fe.Value())
	case notBlankTag:
		return fmt.Sprintf("%s cannot be blank", fe.Field())
	}
	return ""
}

// Custom Validators

// slotValidation accepts one of the 120 grid cells. Both --start and --end
// name cells, so the 02:00 boundary is never valid here.
func slotValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	return ok && grid.IsSelectable(s)
}

// colorValidation accepts an empty string (meaning the default) or a token.
func colorValidation(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	if s == "" {
		return true
	}
	_, err := session.ParseColor(s)
	return err == nil
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(s) != ""
	}
	return false
}

// validateInput validates a flag struct and flattens the translated errors
// into one error, sorted for stable output.
func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, msg := range verrs.Translate(translator) {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return fmt.Errorf("invalid input: %s", strings.Join(msgs, "; "))
}

func colorList() string {
	return strings.Join(colorNames(), ", ")
}
