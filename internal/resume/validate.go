package resume

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/resumate/resumate/internal/apperr"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+\-\s]{7,15}$`)
	cgpaPattern  = regexp.MustCompile(`^[0-9./\s]+$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		mustRegister(v, "phone", phonePattern)
		mustRegister(v, "cgpa", cgpaPattern)
		validate = v
	})
	return validate
}

// mustRegister adds a string-pattern tag and panics if validator refuses it.
func mustRegister(v *validator.Validate, tag string, pattern *regexp.Regexp) {
	err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return pattern.MatchString(fl.Field().String())
	})
	if err != nil {
		panic(fmt.Sprintf("resume: register %q validation: %v", tag, err))
	}
}

// ValidatePersonalDetails applies the personal details form rules.
func ValidatePersonalDetails(pd PersonalDetails) error {
	return firstFieldError(string(KeyPersonalDetails), validatorInstance().Struct(pd))
}

// ValidateSection checks the value that Template.Set would accept for key. Every
// entry must satisfy its form rules; the first failure is reported.
func ValidateSection(key SectionKey, v any) error {
	switch key {
	case KeyPersonalDetails:
		pd, ok := v.(PersonalDetails)
		if !ok {
			return apperr.Invalid(string(key), fmt.Sprintf("unexpected value %T", v))
		}
		return ValidatePersonalDetails(pd)
	case KeyEducation:
		return validateEntries[Education](key, v)
	case KeyExperiences:
		return validateEntries[Experience](key, v)
	case KeyProjects:
		return validateEntries[Project](key, v)
	case KeyAchievements:
		return validateEntries[Achievement](key, v)
	case KeyOrganizations:
		return validateEntries[Organization](key, v)
	case KeyInterests:
		return validateEntries[Interest](key, v)
	case KeyCourses:
		return validateEntries[Course](key, v)
	case KeySkills:
		return validateEntries[Skill](key, v)
	case KeyPublications:
		return validateEntries[Publication](key, v)
	case KeyCertifications:
		return validateEntries[Certification](key, v)
	case KeyLanguages:
		return validateEntries[Language](key, v)
	}
	return apperr.Invalid(string(key), "unknown section")
}

func validateEntries[T any](key SectionKey, v any) error {
	var entries []T
	switch x := v.(type) {
	case []T:
		entries = x
	case Section[T]:
		entries = x.Entries
	default:
		return apperr.Invalid(string(key), fmt.Sprintf("unexpected value %T", v))
	}
	for i := range entries {
		if err := validatorInstance().Struct(entries[i]); err != nil {
			return firstFieldError(fmt.Sprintf("%s[%d]", key, i), err)
		}
	}
	return nil
}

func firstFieldError(prefix string, err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Invalid(prefix, err.Error())
	}
	fe := fieldErrs[0]
	return apperr.Invalid(prefix+"."+fe.Field(), describe(fe))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	case "cgpa":
		return "must be a valid CGPA or percentage"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s item(s)", fe.Param())
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
