package domain

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	return v
}

// CheckFields validates the struct tags of v and returns the failing
// fields by their JSON path, split into missing and otherwise invalid.
func CheckFields(v any) (missing, invalid []string, err error) {
	err = validate.Struct(v)
	if err == nil {
		return nil, nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, nil, err
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if fe.Tag() == "required" {
			missing = append(missing, path)
		} else {
			invalid = append(invalid, path)
		}
	}
	return missing, invalid, nil
}
