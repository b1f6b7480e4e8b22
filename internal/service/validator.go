package service

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Accepts anything shaped local@domain.tld, same loose check the previous
// generation of the tool applied. The standard "email" rule is stricter and
// would reject addresses already stored in existing data files.
var emailShape = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("videohost", func(fl validator.FieldLevel) bool {
		link := fl.Field().String()
		return strings.Contains(link, "youtube.com/") || strings.Contains(link, "youtu.be/")
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}
