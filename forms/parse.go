package forms

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requiredInt parses a mandatory whole number, recording the failure under field.
func requiredInt(errs *ValidationErrors, field, label, value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		errs.add(field, requiredMessage(label))
		return 0
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		errs.add(field, numericMessage(label))
		return 0
	}
	return n
}

// optionalFloat returns nil for a blank value.
func optionalFloat(errs *ValidationErrors, field, label, value string) *float64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		errs.add(field, numericMessage(label))
		return nil
	}
	return &f
}

// optionalString returns nil for a blank value. The value itself is not trimmed.
func optionalString(value string) *string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return &value
}

// check runs struct rules on an already parsed payload and translates failures into
// admin-facing messages. labels maps json field names to their form labels.
func check(payload any, labels map[string]string) ValidationErrors {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ValidationErrors{{Message: err.Error()}}
	}
	var out ValidationErrors
	for _, fe := range verrs {
		field := fe.Field()
		label := labels[field]
		if label == "" {
			label = field
		}
		out.add(field, ruleMessage(fe.Tag(), label))
	}
	return out
}

func ruleMessage(tag, label string) string {
	switch tag {
	case "required":
		return requiredMessage(label)
	case "email":
		return "Adresa de email nu este valida."
	case "gte", "gt", "min":
		return "Campul " + label + " nu poate fi negativ."
	case "oneof":
		return "Campul " + label + " are o valoare necunoscuta."
	default:
		return "Campul " + label + " este invalid."
	}
}
