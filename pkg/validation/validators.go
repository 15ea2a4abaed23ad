package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enumerations supplies the configured tag sets the custom validators check against.
type Enumerations interface {
	IsSeniority(v string) bool
	IsSalaryBand(v string) bool
	IsCategory(v string) bool
}

// New returns a validator that reports fields by their json name and knows
// the job enumeration tags.
func New(enums Enumerations) *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	RegisterValidators(v, enums)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate, enums Enumerations) {
	_ = v.RegisterValidation("job_status", JobStatus)
	_ = v.RegisterValidation("seniority", memberOf(enums.IsSeniority))
	_ = v.RegisterValidation("salary_band", memberOf(enums.IsSalaryBand))
	_ = v.RegisterValidation("job_category", memberOf(enums.IsCategory))
}

// JobStatus accepts the three job lifecycle states.
func JobStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "open", "closed", "draft":
		return true
	}
	return false
}

func memberOf(is func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return is(fl.Field().String())
	}
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
