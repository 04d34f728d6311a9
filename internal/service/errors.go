package service

import (
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrAuthenticationRequired = errors.New("требуется авторизация")
	// ErrNotAuthor is a soft deny: handlers redirect back to the post instead
	// of answering 403.
	ErrNotAuthor              = errors.New("редактировать пост может только автор")
	ErrInvalidCredentials     = errors.New("неверное имя пользователя или пароль")
	// ErrInvalidSession marks a cookie that can never work again: a bad or
	// expired token, or a removed account.
	ErrInvalidSession         = errors.New("недействительная сессия")
)

// ValidationErrors maps a form field to the message shown next to it.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field, msg := range v {
		fields = append(fields, field+": "+msg)
	}
	sort.Strings(fields)
	return "ошибка валидации: " + strings.Join(fields, "; ")
}

func fieldError(field, msg string) ValidationErrors {
	return ValidationErrors{field: msg}
}

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]string{
	"required": "Обязательное поле.",
	"email":    "Введите правильный адрес электронной почты.",
	"username": "Допустимы только буквы, цифры и символы @/./+/-/_.",
	"eqfield":  "Пароли не совпадают.",
	"slug":     "Допустимы только латинские буквы, цифры, дефис и подчеркивание.",
}

// validate runs the struct tags and converts failures into ValidationErrors
// keyed by the lower-cased field name.
func validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if _, seen := out[field]; seen {
			continue
		}
		switch fe.Tag() {
		case "max":
			out[field] = "Значение слишком длинное (максимум " + fe.Param() + ")."
		case "min":
			out[field] = "Значение слишком короткое (минимум " + fe.Param() + ")."
		default:
			msg, ok := fieldMessages[fe.Tag()]
			if !ok {
				msg = "Некорректное значение."
			}
			out[field] = msg
		}
	}
	return out
}
