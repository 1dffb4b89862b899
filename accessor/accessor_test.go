// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package accessor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type auth struct {
	User string
	Pwd  string
}

type config struct {
	Domain string
	Auth   auth
}

var (
	domainField = New(
		"domain",
		func(c config) string { return c.Domain },
		func(c config, v string) config { c.Domain = v; return c },
	)
	authField = New(
		"auth",
		func(c config) auth { return c.Auth },
		func(c config, v auth) config { c.Auth = v; return c },
	)
	userField = New(
		"user",
		func(a auth) string { return a.User },
		func(a auth, v string) auth { a.User = v; return a },
	)
	pwdField = New(
		"pwd",
		func(a auth) string { return a.Pwd },
		func(a auth, v string) auth { a.Pwd = v; return a },
	)
)

func TestNew(t *testing.T) {
	t.Run("will panic", func(t *testing.T) {
		t.Run("if get is nil", func(t *testing.T) {
			assert.Panics(t, func() {
				New[config, string]("x", nil, func(c config, _ string) config { return c })
			})
		})

		t.Run("if set is nil", func(t *testing.T) {
			assert.Panics(t, func() {
				New[config, string]("x", func(c config) string { return "" }, nil)
			})
		})
	})
}

func TestAccessor_Laws(t *testing.T) {
	base := config{
		Domain: "example.com",
		Auth:   auth{User: "alice", Pwd: "secret"},
	}

	testCases := []struct {
		name  string
		get   func(config) string
		set   func(config, string) config
		value string
	}{
		{
			name:  "top level field",
			get:   domainField.Get,
			set:   domainField.Set,
			value: "other.com",
		},
		{
			name:  "composed nested field",
			get:   Compose(authField, userField).Get,
			set:   Compose(authField, userField).Set,
			value: "bob",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Run("will round trip the current value", func(t *testing.T) {
				got := testCase.set(base, testCase.get(base))
				if !assert.Equal(t, base, got) {
					return
				}
			})

			t.Run("will read back the written value", func(t *testing.T) {
				got := testCase.get(testCase.set(base, testCase.value))
				if !assert.Equal(t, testCase.value, got) {
					return
				}
			})

			t.Run("will not mutate the original value", func(t *testing.T) {
				before := base
				testCase.set(base, testCase.value)
				if !assert.Equal(t, before, base) {
					return
				}
			})
		})
	}
}

func TestCompose(t *testing.T) {
	t.Run("will join names with the separator", func(t *testing.T) {
		a := Compose(authField, userField)
		if !assert.Equal(t, "auth.user", a.Name()) {
			return
		}
		if !assert.Equal(t, []string{"auth", "user"}, a.Path()) {
			return
		}
	})

	t.Run("will leave sibling fields untouched", func(t *testing.T) {
		base := config{
			Domain: "example.com",
			Auth:   auth{User: "alice", Pwd: "secret"},
		}

		got := Compose(authField, pwdField).Set(base, "changed")
		if !assert.Equal(t, "changed", got.Auth.Pwd) {
			return
		}
		if !assert.Equal(t, "alice", got.Auth.User) {
			return
		}
		if !assert.Equal(t, "example.com", got.Domain) {
			return
		}
	})

	t.Run("will treat Identity as a unit", func(t *testing.T) {
		left := Compose(Identity[config](), domainField)
		right := Compose(domainField, Identity[string]())

		c := config{Domain: "a"}
		if !assert.Equal(t, "domain", left.Name()) {
			return
		}
		if !assert.Equal(t, "domain", right.Name()) {
			return
		}
		if !assert.Equal(t, domainField.Set(c, "b"), left.Set(c, "b")) {
			return
		}
		if !assert.Equal(t, domainField.Set(c, "b"), right.Set(c, "b")) {
			return
		}
	})
}

func TestAccessor_Modify(t *testing.T) {
	t.Run("will apply the func to the current field value", func(t *testing.T) {
		c := config{Domain: "example.com"}
		got := domainField.Modify(c, func(s string) string { return "api." + s })
		if !assert.Equal(t, "api.example.com", got.Domain) {
			return
		}
	})
}

func TestIdentity_Path(t *testing.T) {
	t.Run("will be empty", func(t *testing.T) {
		if !assert.Nil(t, Identity[config]().Path()) {
			return
		}
	})
}
