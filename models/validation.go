package models

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors is a list of per-field messages, in the order they were found
type FieldErrors []FieldError

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Get returns all messages for a field (used by templates)
func (e FieldErrors) Get(field string) []string {
	var result []string
	for _, fe := range e {
		if fe.Field == field {
			result = append(result, fe.Message)
		}
	}
	return result
}

func (e FieldErrors) Has(field string) bool {
	return len(e.Get(field)) > 0
}

const (
	MessageRequired      = "Обязательное поле."
	MessageInvalidChoice = "Выберите корректный вариант. Вашего варианта нет среди допустимых значений."
)

var (
	slugRegexp     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
	usernameRegexp = regexp.MustCompile(`^[\w.@+-]+$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}
		return name
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRegexp.MatchString(fl.Field().String())
	})
	return v
}

// validateStruct runs the `validate` tags and converts failures into FieldErrors
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	result := FieldErrors{}
	for _, fe := range validationErrors {
		result = append(result, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return MessageRequired
	case "max":
		return fmt.Sprintf("Убедитесь, что это значение содержит не более %s символов.", fe.Param())
	case "min":
		return fmt.Sprintf("Убедитесь, что это значение содержит не менее %s символов.", fe.Param())
	case "email":
		return "Введите правильный адрес электронной почты."
	case "slug":
		return "Значение должно состоять только из латинских букв, цифр, знаков подчеркивания или дефиса."
	case "username":
		return "Введите правильное имя пользователя. Оно может содержать только буквы, цифры и знаки @/./+/-/_."
	}
	return "Некорректное значение."
}
