// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package validate

import (
	"context"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// RuleError occurs when an expression rule fails to compile.
type RuleError struct {
	Rule  string
	Cause error
}

// Error implements the error interface.
func (e RuleError) Error() string {
	return fmt.Sprintf("invalid validation rule %q: %s", e.Rule, e.Cause)
}

// Unwrap implements the implicit interface for usage with errors.Is and errors.As.
func (e RuleError) Unwrap() error {
	return e.Cause
}

type exprValidator[T any] struct {
	rule    string
	message string
	program *vm.Program
}

// Expr compiles rule, a boolean expr-lang expression over the fields of
// T, into a Validator rejecting with message when the rule is false.
//
//	validate.Expr[Config](`Port > 0 && Port < 65536`, "port out of range")
func Expr[T any](rule, message string) (Validator[T], error) {
	var zero T
	program, err := expr.Compile(rule, expr.Env(zero), expr.AsBool())
	if err != nil {
		return nil, RuleError{Rule: rule, Cause: err}
	}
	return exprValidator[T]{
		rule:    rule,
		message: message,
		program: program,
	}, nil
}

// MustExpr is like [Expr] but panics if rule does not compile.
func MustExpr[T any](rule, message string) Validator[T] {
	v, err := Expr[T](rule, message)
	if err != nil {
		panic(err)
	}
	return v
}

// Validate implements the [Validator] interface.
func (v exprValidator[T]) Validate(_ context.Context, cfg T) (T, error) {
	out, err := expr.Run(v.program, cfg)
	if err != nil {
		return cfg, Reject(fmt.Sprintf("%s: %s", v.message, err))
	}
	if ok, _ := out.(bool); !ok {
		return cfg, Reject(v.message)
	}
	return cfg, nil
}
