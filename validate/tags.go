// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validate

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// TagOption configures the underlying tag validator.
type TagOption func(*validator.Validate)

// TagRule registers a custom validation tag.
func TagRule(tag string, fn validator.Func) TagOption {
	return func(v *validator.Validate) {
		err := v.RegisterValidation(tag, fn)
		if err != nil {
			panic(err)
		}
	}
}

type tagValidator[T any] struct {
	v *validator.Validate
}

// Tags returns a Validator which checks the `validate` struct tags of T,
// e.g. `validate:"required,hostname"`. Every failing field contributes
// one message.
func Tags[T any](opts ...TagOption) Validator[T] {
	v := validator.New(validator.WithRequiredStructEnabled())
	for _, opt := range opts {
		opt(v)
	}
	return tagValidator[T]{v: v}
}

// Validate implements the [Validator] interface.
func (tv tagValidator[T]) Validate(_ context.Context, cfg T) (T, error) {
	err := tv.v.Struct(cfg)
	if err == nil {
		return cfg, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return cfg, Reject(err.Error())
	}

	messages := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		messages[i] = fieldMessage(fe)
	}
	return cfg, Error{Messages: messages}
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fmt.Sprintf("%s failed on the %s rule", fe.Namespace(), fe.Tag())
	}
	return fmt.Sprintf("%s failed on the %s=%s rule", fe.Namespace(), fe.Tag(), fe.Param())
}

// SelfValidating is implemented by configuration types which check themselves.
type SelfValidating interface {
	Validate() error
}

// Self returns a Validator calling cfg.Validate.
func Self[T SelfValidating]() Validator[T] {
	return Func[T](func(_ context.Context, cfg T) (T, error) {
		err := cfg.Validate()
		if err != nil {
			return cfg, Error{Messages: Messages(err)}
		}
		return cfg, nil
	})
}
