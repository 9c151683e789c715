package service

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"

	"mess-admin-go/internal/models"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	phoneRegex = regexp.MustCompile(`^[0-9]{10}$`)
)

func init() {
	enLocale := en.New()
	translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

	validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	register("phone10", "{0} must be a valid 10-digit phone number", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "" || phoneRegex.MatchString(s)
	})
	register("foodtime", "{0} must be one of '1 time', '2 times', '3 times'", func(fl validator.FieldLevel) bool {
		return models.FoodTime(fl.Field().String()).Valid()
	})
	register("plan", "{0} must be one of monthly, 15days, nasta, custom", func(fl validator.FieldLevel) bool {
		return models.PlanType(fl.Field().String()).Valid()
	})
	register("method", "{0} must be one of cash, upi, card, bank_transfer", func(fl validator.FieldLevel) bool {
		return models.PaymentMethod(fl.Field().String()).Valid()
	})
	register("attstatus", "{0} must be one of present, absent, holiday", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
}

func register(tag, text string, fn validator.Func) {
	_ = validate.RegisterValidation(tag, fn)
	_ = validate.RegisterTranslation(tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// check validates v and reports failures as a *ValidationError.
func check(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Translate(translator)
	}
	return &ValidationError{Fields: fields}
}
