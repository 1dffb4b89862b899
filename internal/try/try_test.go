// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package try

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestRecover(t *testing.T) {
	t.Run("will not set an error", func(t *testing.T) {
		t.Run("if nothing panics", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				return nil
			}

			if !assert.Nil(t, f()) {
				return
			}
		})
	})

	t.Run("will return a PanicError", func(t *testing.T) {
		t.Run("if a non-error value is panicked", func(t *testing.T) {
			f := func() (err error) {
				defer Recover(&err)
				panic("boom")
			}

			err := f()

			var perr PanicError
			if !assert.ErrorAs(t, err, &perr) {
				return
			}
			if !assert.Equal(t, "boom", perr.Value) {
				return
			}
			if !assert.Nil(t, perr.Unwrap()) {
				return
			}
		})

		t.Run("which unwraps to a panicked error", func(t *testing.T) {
			cause := errors.New("cause")
			f := func() (err error) {
				defer Recover(&err)
				panic(cause)
			}

			if !assert.ErrorIs(t, f(), cause) {
				return
			}
		})
	})

	t.Run("will join with an existing error", func(t *testing.T) {
		existing := errors.New("existing")
		f := func() (err error) {
			defer Recover(&err)
			err = existing
			panic("boom")
		}

		err := f()
		if !assert.ErrorIs(t, err, existing) {
			return
		}

		var perr PanicError
		if !assert.ErrorAs(t, err, &perr) {
			return
		}
	})
}

func TestClose(t *testing.T) {
	t.Run("will ignore values which are not closers", func(t *testing.T) {
		var err error
		Close(&err, "not a closer")
		if !assert.Nil(t, err) {
			return
		}
	})

	t.Run("will return a CloseError", func(t *testing.T) {
		t.Run("if Close fails", func(t *testing.T) {
			closeErr := errors.New("close failed")

			var err error
			Close(&err, closerFunc(func() error { return closeErr }))

			var cerr CloseError
			if !assert.ErrorAs(t, err, &cerr) {
				return
			}
			if !assert.ErrorIs(t, err, closeErr) {
				return
			}
		})
	})

	t.Run("will keep the original error", func(t *testing.T) {
		readErr := errors.New("read failed")
		closeErr := errors.New("close failed")

		err := readErr
		Close(&err, closerFunc(func() error { return closeErr }))

		if !assert.ErrorIs(t, err, readErr) {
			return
		}
		if !assert.ErrorIs(t, err, closeErr) {
			return
		}
	})
}
