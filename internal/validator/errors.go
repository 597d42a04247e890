package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

// OK reports whether no field failed validation.
func (e Errors) OK() bool {
	return len(e) == 0
}

// MessageOverrider lets a form replace the default message for a
// "field.tag" pair, e.g. "password.eqfield".
type MessageOverrider interface {
	Messages() map[string]string
}

// Struct runs the constraint tags of form and collects one message per
// failing field. Every field is checked; a failure on one field never hides
// failures on another.
func Struct(form any) Errors {
	errs := Errors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		// Only reachable when form is not a struct, which is a programming error.
		panic(fmt.Sprintf("validator: cannot validate %T: %v", form, err))
	}

	var overrides map[string]string
	if o, ok := form.(MessageOverrider); ok {
		overrides = o.Messages()
	}

	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		if msg, ok := overrides[field+"."+fe.Tag()]; ok {
			errs[field] = msg
			continue
		}
		errs[field] = defaultMessage(fe)
	}
	return errs
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
