// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package validate accepts or rejects a fully resolved configuration.
//
// A [Validator] runs once, after every source and flag has been merged.
// It may return the configuration unchanged, return a transformed copy
// or reject it with an [Error] listing every problem found.
package validate

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/z5labs/strata/accessor"
)

// Validator checks a resolved configuration.
type Validator[T any] interface {
	Validate(ctx context.Context, cfg T) (T, error)
}

// Func is a func implementation of the [Validator] interface.
type Func[T any] func(context.Context, T) (T, error)

// Validate implements the [Validator] interface.
func (f Func[T]) Validate(ctx context.Context, cfg T) (T, error) {
	return f(ctx, cfg)
}

// Error is returned when a configuration is rejected.
type Error struct {
	Messages []string
}

// Rejected is the message of a rejection which gave no reason.
const Rejected = "configuration rejected"

// Reject returns an [Error] with the given messages, or [Rejected] when
// none are given.
func Reject(messages ...string) error {
	if len(messages) == 0 {
		messages = []string{Rejected}
	}
	return Error{Messages: messages}
}

// Error implements the error interface.
func (e Error) Error() string {
	switch len(e.Messages) {
	case 0:
		return "invalid configuration: " + Rejected
	case 1:
		return "invalid configuration: " + e.Messages[0]
	default:
		return "invalid configuration:\n  - " + strings.Join(e.Messages, "\n  - ")
	}
}

// Messages returns the messages carried by err, or err's text when it is
// not an [Error]. The result is never empty for a non-nil err.
func Messages(err error) []string {
	if err == nil {
		return nil
	}
	var ve Error
	if !errors.As(err, &ve) {
		return []string{err.Error()}
	}
	if len(ve.Messages) == 0 {
		return []string{Rejected}
	}
	return ve.Messages
}

// Accept returns a Validator which accepts every configuration.
func Accept[T any]() Validator[T] {
	return Func[T](func(_ context.Context, cfg T) (T, error) {
		return cfg, nil
	})
}

// Predicate rejects a configuration with message when ok returns false.
func Predicate[T any](message string, ok func(T) bool) Validator[T] {
	return Func[T](func(_ context.Context, cfg T) (T, error) {
		if !ok(cfg) {
			return cfg, Reject(message)
		}
		return cfg, nil
	})
}

// NonZero rejects a configuration whose field addressed by a holds its
// zero value, e.g. an empty string.
func NonZero[T, A any](a accessor.Accessor[T, A]) Validator[T] {
	return Predicate(a.Name()+" must be set", func(cfg T) bool {
		v := reflect.ValueOf(a.Get(cfg))
		return v.IsValid() && !v.IsZero()
	})
}

// All runs every validator in order, passing each the configuration
// returned by the one before. Messages of every rejection are collected.
func All[T any](vs ...Validator[T]) Validator[T] {
	return Func[T](func(ctx context.Context, cfg T) (T, error) {
		var messages []string
		for _, v := range vs {
			if v == nil {
				continue
			}
			next, err := v.Validate(ctx, cfg)
			if err != nil {
				messages = append(messages, Messages(err)...)
				continue
			}
			cfg = next
		}
		if len(messages) > 0 {
			return cfg, Error{Messages: messages}
		}
		return cfg, nil
	})
}
