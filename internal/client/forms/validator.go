package forms

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

const (
	TagHasLower   = "haslower"
	TagHasDigit   = "hasdigit"
	TagHasSpecial = "hasspecial"
	TagEmailShape = "emailshape"
)

var (
	emailShapeRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	lowerRegex      = regexp.MustCompile(`[a-z]`)
	digitRegex      = regexp.MustCompile(`[0-9]`)
	specialRegex    = regexp.MustCompile(`[^A-Za-z0-9]`)

	engineOnce sync.Once
	engine     *validator.Validate
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		engine = validator.New(validator.WithRequiredStructEnabled())
		_ = engine.RegisterValidation(TagHasLower, matches(lowerRegex))
		_ = engine.RegisterValidation(TagHasDigit, matches(digitRegex))
		_ = engine.RegisterValidation(TagHasSpecial, matches(specialRegex))
		_ = engine.RegisterValidation(TagEmailShape, matches(emailShapeRegex))
	})
	return engine
}

// matches leaves empty values to the required tag.
func matches(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		v := fl.Field().String()
		return v == "" || re.MatchString(v)
	}
}

// fieldErrors runs struct validation and returns the failed fields, or nil.
func fieldErrors(s any) validator.ValidationErrors {
	err := validate().Struct(s)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return nil
}

// anyRequired reports whether some field failed its required tag.
func anyRequired(errs validator.ValidationErrors) bool {
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return true
		}
	}
	return false
}

// firstFor returns the failure recorded for field, in declaration order.
func firstFor(errs validator.ValidationErrors, field string) (validator.FieldError, bool) {
	for _, fe := range errs {
		if strings.EqualFold(fe.Field(), field) {
			return fe, true
		}
	}
	return nil, false
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, errors.New("not a positive integer")
	}
	return n, nil
}
