// Package validation holds the input contracts checked before any ledger call.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/tansive/j832-go/pkg/types"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// V returns the shared validator with the ledger specific tags registered.
func V() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		validate.RegisterValidation("changetype", changeTypeValidator)
		validate.RegisterValidation("hexsecret", hexSecretValidator)
	})
	return validate
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// changeTypeValidator accepts only the closed ChangeType enumeration.
func changeTypeValidator(fl validator.FieldLevel) bool {
	if ct, ok := fl.Field().Interface().(types.ChangeType); ok {
		return ct.IsValid()
	}
	switch fl.Field().Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return types.ChangeType(fl.Field().Int()).IsValid()
	}
	return false
}

const hexSecretRegex = `^0x[0-9a-fA-F]{64}$`

var hexSecretRe = regexp.MustCompile(hexSecretRegex)

// hexSecretValidator checks the 0x-prefixed 32-byte private key format.
func hexSecretValidator(fl validator.FieldLevel) bool {
	return hexSecretRe.MatchString(fl.Field().String())
}

// Check validates s against its struct tags and translates the first failure
// into an ErrInvalidInput child naming the field.
func Check(s any) error {
	err := V().Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return ErrInvalidInput.Err(err)
	}
	return translate(ve[0])
}

func translate(e validator.FieldError) error {
	return translateTag(e.Field(), e.Tag(), e.Value())
}

func translateTag(field, tag string, value any) error {
	switch tag {
	case "required":
		return ErrMissingRequired.Suffix(field)
	case "eth_addr":
		return ErrInvalidAddress.Suffix(field)
	case "changetype":
		if ct, ok := value.(types.ChangeType); ok {
			return ErrInvalidChangeType.Suffix(field + "=" + ct.String())
		}
		return ErrInvalidChangeType.Suffix(field)
	default:
		return ErrInvalidFormat.Suffix(field)
	}
}
