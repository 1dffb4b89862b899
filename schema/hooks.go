// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package schema

import (
	"encoding"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
)

// TagName is the struct tag consulted when decoding into sub-records.
const TagName = "config"

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

var errInvalidDecodeCondition = errors.New("invalid decode condition")

var (
	// ErrOutOfRange is the cause of a [TypeCoercionError] when a number
	// does not fit the integer type of its field.
	ErrOutOfRange = errors.New("value out of range")

	// ErrNotIntegral is the cause of a [TypeCoercionError] when a number
	// with a fractional part is given for an integer field.
	ErrNotIntegral = errors.New("value is not a whole number")
)

// TypeCoercionError occurs when a raw document or flag value can not be
// coerced into the type of the field it addresses.
type TypeCoercionError struct {
	From  reflect.Type
	To    reflect.Type
	Cause error
}

// Error implements the error interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", typeLabel(e.From), typeLabel(e.To), e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func typeLabel(t reflect.Type) string {
	if t == nil {
		return "nil"
	}
	return t.String()
}

// decode coerces raw into a value of type A, starting from into.
// Flag text is decoded weakly so "8080" satisfies an int field.
func decode[A any](raw any, into A, weak bool) (A, error) {
	out := into
	hooks := []mapstructure.DecodeHookFunc{
		textUnmarshalerHookFunc(),
		timeDurationHookFunc(),
		integerRangeHookFunc(),
	}
	if weak {
		hooks = append(hooks, commaSliceHookFunc())
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		Result:           &out,
		WeaklyTypedInput: weak,
		ZeroFields:       true,
		DecodeHook:       composeDecodeHooks(hooks...),
	})
	if err != nil {
		return into, err
	}
	err = dec.Decode(raw)
	if err != nil {
		return into, err
	}
	return out, nil
}

// unusedKeys reports the keys of raw which have no counterpart in the
// struct type of into, sorted. Values are read weakly since only the
// keys matter here; decode reports malformed values.
func unusedKeys[A any](raw any, into A) ([]string, error) {
	out := into
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          TagName,
		Result:           &out,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook:       composeDecodeHooks(textUnmarshalerHookFunc(), timeDurationHookFunc()),
	})
	if err != nil {
		return nil, err
	}
	err = dec.Decode(raw)
	if err != nil {
		return nil, err
	}
	slices.Sort(md.Unused)
	return md.Unused, nil
}

func composeDecodeHooks(hs ...mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(f, t reflect.Value) (any, error) {
		for _, h := range hs {
			v, err := mapstructure.DecodeHookExec(h, f, t)
			if err == nil {
				return v, nil
			}
			if err == errInvalidDecodeCondition {
				continue
			}
			return nil, TypeCoercionError{
				From:  f.Type(),
				To:    t.Type(),
				Cause: err,
			}
		}
		return f.Interface(), nil
	}
}

func textUnmarshalerHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return nil, errInvalidDecodeCondition
		}
		result := reflect.New(t).Interface()
		u, ok := result.(encoding.TextUnmarshaler)
		if !ok {
			return nil, errInvalidDecodeCondition
		}
		err := u.UnmarshalText([]byte(reflect.ValueOf(data).String()))
		if err != nil {
			return nil, err
		}
		return result, nil
	}
}

func timeDurationHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if t != durationType {
			return nil, errInvalidDecodeCondition
		}

		v := reflect.ValueOf(data)
		switch f.Kind() {
		case reflect.String:
			return time.ParseDuration(v.String())
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return time.Duration(v.Int()), nil
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

// integerRangeHookFunc rejects numbers an integer typed target can not
// hold exactly, which mapstructure would otherwise wrap or truncate.
func integerRangeHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if !isInteger(t.Kind()) {
			return nil, errInvalidDecodeCondition
		}

		v := reflect.ValueOf(data)
		target := reflect.New(t).Elem()
		switch {
		case isSigned(f.Kind()):
			if fitsInt(target, v.Int()) {
				return nil, errInvalidDecodeCondition
			}
			return nil, ErrOutOfRange
		case isUnsigned(f.Kind()):
			if fitsUint(target, v.Uint()) {
				return nil, errInvalidDecodeCondition
			}
			return nil, ErrOutOfRange
		case f.Kind() == reflect.Float32 || f.Kind() == reflect.Float64:
			x := v.Float()
			if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
				return nil, ErrNotIntegral
			}
			if x >= -(1<<63) && x < 1<<63 && fitsInt(target, int64(x)) {
				return nil, errInvalidDecodeCondition
			}
			if x >= 0 && x < 1<<64 && fitsUint(target, uint64(x)) {
				return nil, errInvalidDecodeCondition
			}
			return nil, ErrOutOfRange
		default:
			return nil, errInvalidDecodeCondition
		}
	}
}

func fitsInt(target reflect.Value, n int64) bool {
	if isUnsigned(target.Kind()) {
		return n >= 0 && !target.OverflowUint(uint64(n))
	}
	return !target.OverflowInt(n)
}

func fitsUint(target reflect.Value, n uint64) bool {
	if isUnsigned(target.Kind()) {
		return !target.OverflowUint(n)
	}
	return n <= math.MaxInt64 && !target.OverflowInt(int64(n))
}

func isInteger(k reflect.Kind) bool {
	return isSigned(k) || isUnsigned(k)
}

func isSigned(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return false
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

// commaSliceHookFunc splits flag text like "a,b,c" into its elements
// for slice typed fields.
func commaSliceHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice || t.Elem().Kind() == reflect.Uint8 {
			return nil, errInvalidDecodeCondition
		}
		s := reflect.ValueOf(data).String()
		if s == "" {
			return []string{}, nil
		}
		parts := strings.Split(s, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}
