package config

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
	validateErr  error
)

// Validator returns the shared struct validator and its English translator.
// Field names in messages come from json tags, then yaml tags.
func Validator() (*validator.Validate, ut.Translator, error) {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(tagName)

		english := en.New()
		uni := ut.New(english, english)
		trans, _ := uni.GetTranslator("en")
		if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
			validateErr = err
			return
		}
		validate, translator = v, trans
	})
	return validate, translator, validateErr
}

// Check validates a struct and reports the first failure as a readable error.
func Check(v any) error {
	val, trans, err := Validator()
	if err != nil {
		return err
	}
	if err := val.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return errors.New(fieldErrs[0].Translate(trans))
		}
		return err
	}
	return nil
}

func tagName(fld reflect.StructField) string {
	for _, key := range []string{"json", "yaml"} {
		name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
