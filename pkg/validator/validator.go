package validator

import (
	"log"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yemektaxi/backend/internal/identity"
)

const (
	MinAge = 13
	MaxAge = 120
)

var phoneNumberPattern = regexp.MustCompile(`^\+?90?[0-9]{10}$`)

func RegisterGinValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := Register(v); err != nil {
			log.Fatalf("register validators failed: %s", err)
		}
	}
}

// Register installs json tag names and the custom rules on v.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("phonenumber", phoneNumberValidator); err != nil {
		return err
	}
	if err := v.RegisterValidation("tckn", tcknValidator); err != nil {
		return err
	}

	return v.RegisterValidation("birthyear", birthYearValidator)
}

func IsPhoneNumber(phone string) bool {
	return phoneNumberPattern.MatchString(phone)
}

// IsBirthYearAllowed reports whether someone born in year is between MinAge and MaxAge at now.
func IsBirthYearAllowed(year int, now time.Time) bool {
	age := now.Year() - year
	return age >= MinAge && age <= MaxAge
}

var phoneNumberValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsPhoneNumber(fl.Field().String())
}

var tcknValidator validator.Func = func(fl validator.FieldLevel) bool {
	return identity.ValidateFormat(fl.Field().String())
}

var birthYearValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsBirthYearAllowed(int(fl.Field().Int()), time.Now())
}
