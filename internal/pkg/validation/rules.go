package validation

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/examportal/internal/app/models"
)

// Tags of the enum rules registered on the gin validator
const (
	TagExamScope = "examscope"
	TagExamType  = "examtype"
	TagShift     = "shift"
	TagUserType  = "usertype"
	TagFormType  = "formtype"
)

// Rules maps a binding tag to the parser that accepts its values.
// Each parser accepts the enum constant and the labels the web forms send.
var Rules = map[string]func(string) bool{
	TagExamScope: func(s string) bool { _, ok := models.ParseExamScope(s); return ok },
	TagExamType:  func(s string) bool { _, ok := models.ParseExamType(s); return ok },
	TagShift:     func(s string) bool { _, ok := models.ParseShift(s); return ok },
	TagUserType:  func(s string) bool { _, ok := models.ParseUserType(s); return ok },
	TagFormType:  func(s string) bool { _, ok := models.ParseFormType(s); return ok },
}

// Register adds Rules to a validator instance
func Register(v *validator.Validate) error {
	for tag, accept := range Rules {
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return accept(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %s rule: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs Rules on gin's default binding engine
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
