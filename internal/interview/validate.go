package interview

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Share the tag gin uses so request DTOs carry one set of rules.
	v.SetTagName("binding")
	return v
}

// Validate checks req against its binding tags. messages maps "<jsonField>.<tag>"
// to the text reported for that failure; required fields fall back to
// "Missing required field: <jsonField>".
func Validate(req any, messages map[string]string) error {
	if err := validate.Struct(req); err != nil {
		return FromBindingError(err, req, messages)
	}
	return nil
}

// FromBindingError converts an error from gin's ShouldBindJSON or Validate into
// a *ValidationError naming the first failing field. Errors that are not
// validator errors, such as malformed JSON, yield a generic body message.
func FromBindingError(err error, req any, messages map[string]string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: "Invalid JSON body"}
	}
	fe := verrs[0]
	field := jsonName(req, fe.StructField())
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return &ValidationError{Field: field, Message: msg}
	}
	if fe.Tag() == "required" {
		return &ValidationError{Field: field, Message: "Missing required field: " + field}
	}
	return &ValidationError{Field: field, Message: fmt.Sprintf("Invalid value for field: %s", field)}
}

func jsonName(req any, structField string) string {
	t := reflect.TypeOf(req)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}
	f, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return structField
	}
	return name
}
