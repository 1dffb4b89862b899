// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package cli

import (
	"testing"
	"time"

	"github.com/z5labs/strata/accessor"
	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/source"

	"github.com/stretchr/testify/assert"
)

type auth struct {
	User string
	Pwd  string
}

type config struct {
	Domain  string
	Path    string
	Port    int
	Debug   bool
	Tags    []string
	Timeout time.Duration
	Auth    auth
}

var (
	domainField = accessor.New("domain",
		func(c config) string { return c.Domain },
		func(c config, v string) config { c.Domain = v; return c },
	)
	pathField = accessor.New("path",
		func(c config) string { return c.Path },
		func(c config, v string) config { c.Path = v; return c },
	)
	portField = accessor.New("port",
		func(c config) int { return c.Port },
		func(c config, v int) config { c.Port = v; return c },
	)
	debugField = accessor.New("debug",
		func(c config) bool { return c.Debug },
		func(c config, v bool) config { c.Debug = v; return c },
	)
	tagsField = accessor.New("tags",
		func(c config) []string { return c.Tags },
		func(c config, v []string) config { c.Tags = v; return c },
	)
	timeoutField = accessor.New("timeout",
		func(c config) time.Duration { return c.Timeout },
		func(c config, v time.Duration) config { c.Timeout = v; return c },
	)
	authField = accessor.New("auth",
		func(c config) auth { return c.Auth },
		func(c config, v auth) config { c.Auth = v; return c },
	)
	userField = accessor.New("user",
		func(a auth) string { return a.User },
		func(a auth, v string) auth { a.User = v; return a },
	)
	pwdField = accessor.New("pwd",
		func(a auth) string { return a.Pwd },
		func(a auth, v string) auth { a.Pwd = v; return a },
	)
)

func configSchema(extra ...schema.Field[config]) schema.Schema[config] {
	fields := []schema.Field[config]{
		schema.Bind(domainField, schema.Shorthand("d"), schema.Usage("public domain")),
		schema.Bind(pathField),
		schema.Bind(portField),
		schema.Bind(debugField),
		schema.Bind(tagsField),
		schema.Bind(timeoutField),
	}
	fields = append(fields, schema.Nest(authField, schema.MustNew(
		schema.Bind(userField),
		schema.Bind(pwdField, schema.Secret()),
	))...)
	fields = append(fields, extra...)
	return schema.MustNew(fields...)
}

func newTestBinder(t *testing.T, opts ...Option[config]) *Binder[config] {
	t.Helper()

	b, err := NewBinder("testapp", configSchema(), opts...)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestNewBinder(t *testing.T) {
	t.Run("will return a FlagCollisionError", func(t *testing.T) {
		testCases := []struct {
			Name  string
			Field schema.Field[config]
			Opts  []Option[config]
			Flag  string
		}{
			{
				Name:  "if a field uses the help flag name",
				Field: schema.Bind(accessor.Compose(authField, userField), schema.Key("helper"), schema.Flag("help")),
				Flag:  "--help",
			},
			{
				Name:  "if a field uses the config file shorthand",
				Field: schema.Bind(accessor.Compose(authField, userField), schema.Key("cert"), schema.Shorthand("c")),
				Flag:  "-c",
			},
			{
				Name:  "if a field uses the version flag and build info is supplied",
				Field: schema.Bind(accessor.Compose(authField, userField), schema.Key("version")),
				Opts:  []Option[config]{WithBuildInfo[config](BuildInfo{Version: "v1.0.0"})},
				Flag:  "--version",
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				_, err := NewBinder("testapp", configSchema(testCase.Field), testCase.Opts...)

				var fce FlagCollisionError
				if !assert.ErrorAs(t, err, &fce) {
					return
				}
				if !assert.Equal(t, testCase.Flag, fce.Flag) {
					return
				}
			})
		}
	})

	t.Run("will not return an error", func(t *testing.T) {
		t.Run("if a field uses the version flag without build info", func(t *testing.T) {
			field := schema.Bind(accessor.Compose(authField, userField), schema.Key("version"))
			_, err := NewBinder("testapp", configSchema(field))
			if !assert.Nil(t, err) {
				return
			}
		})
	})
}

func TestBinder_Bind(t *testing.T) {
	def := config{Domain: "default_domain", Path: "default_path", Port: 80}

	t.Run("will return an empty binding", func(t *testing.T) {
		t.Run("if no arguments are given", func(t *testing.T) {
			binding, err := newTestBinder(t).Bind([]string{})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Empty(t, binding.Sources) {
				return
			}
			if !assert.True(t, binding.Directives.Empty()) {
				return
			}
			if !assert.Equal(t, def, binding.Update.Apply(def)) {
				return
			}
		})
	})

	t.Run("will collect config file sources in order", func(t *testing.T) {
		t.Run("if the flag is repeated", func(t *testing.T) {
			args := []string{"-c", "a.yaml", "--config-file", "https://config.example.com/b.yaml", "--config-file=a.yaml"}
			binding, err := newTestBinder(t).Bind(args)
			if !assert.Nil(t, err) {
				return
			}

			expected := []source.Source{
				source.File("a.yaml"),
				source.Remote("https://config.example.com/b.yaml"),
				source.File("a.yaml"),
			}
			if !assert.Equal(t, expected, binding.Sources) {
				return
			}
		})
	})

	t.Run("will only write the flags given", func(t *testing.T) {
		t.Run("if application flags are present", func(t *testing.T) {
			args := []string{
				"-d", "cli_domain",
				"--port", "9090",
				"--debug",
				"--tags", "a",
				"--tags", "b,c",
				"--timeout", "5s",
				"--auth-user", "cli_user",
			}
			binding, err := newTestBinder(t).Bind(args)
			if !assert.Nil(t, err) {
				return
			}

			expected := config{
				Domain:  "cli_domain",
				Path:    "default_path",
				Port:    9090,
				Debug:   true,
				Tags:    []string{"a", "b", "c"},
				Timeout: 5 * time.Second,
				Auth:    auth{User: "cli_user"},
			}
			if !assert.Equal(t, expected, binding.Update.Apply(def)) {
				return
			}
		})

		t.Run("if a scalar flag is repeated the last one wins", func(t *testing.T) {
			binding, err := newTestBinder(t).Bind([]string{"--domain", "a", "--domain", "b"})
			if !assert.Nil(t, err) {
				return
			}
			if !assert.Equal(t, "b", binding.Update.Apply(def).Domain) {
				return
			}
		})

		t.Run("if a bool flag is given an explicit value", func(t *testing.T) {
			binding, err := newTestBinder(t).Bind([]string{"--debug=false"})
			if !assert.Nil(t, err) {
				return
			}

			cfg := binding.Update.Apply(config{Debug: true})
			if !assert.False(t, cfg.Debug) {
				return
			}
		})
	})

	t.Run("will collect directives", func(t *testing.T) {
		testCases := []struct {
			Name     string
			Args     []string
			Opts     []Option[config]
			Expected []Directive
		}{
			{Name: "if print config is requested", Args: []string{"-p"}, Expected: []Directive{PrintConfig}},
			{Name: "if help is requested", Args: []string{"--help"}, Expected: []Directive{ShowHelp}},
			{
				Name:     "if build directives are requested with build info",
				Args:     []string{"--license", "-v", "--long-info", "-i", "-h"},
				Opts:     []Option[config]{WithBuildInfo[config](BuildInfo{})},
				Expected: []Directive{ShowHelp, ShowVersion, ShowInfo, ShowLongInfo, ShowLicense},
			},
		}

		for _, testCase := range testCases {
			t.Run(testCase.Name, func(t *testing.T) {
				binding, err := newTestBinder(t, testCase.Opts...).Bind(testCase.Args)
				if !assert.Nil(t, err) {
					return
				}
				if !assert.Equal(t, testCase.Expected, binding.Directives.List()) {
					return
				}
			})
		}
	})

	t.Run("will return a ParseError", func(t *testing.T) {
		t.Run("if an unknown flag is given", func(t *testing.T) {
			_, err := newTestBinder(t).Bind([]string{"--nope"})

			var pe ParseError
			if !assert.ErrorAs(t, err, &pe) {
				return
			}
			if !assert.Contains(t, pe.Usage, "--config-file") {
				return
			}
		})

		t.Run("if a build directive is given without build info", func(t *testing.T) {
			_, err := newTestBinder(t).Bind([]string{"--version"})

			var pe ParseError
			if !assert.ErrorAs(t, err, &pe) {
				return
			}
		})

		t.Run("if a flag value is malformed", func(t *testing.T) {
			_, err := newTestBinder(t).Bind([]string{"--port", "eighty"})

			var pe ParseError
			if !assert.ErrorAs(t, err, &pe) {
				return
			}
			if !assert.ErrorContains(t, err, "--port") {
				return
			}
		})

		t.Run("if a flag is missing its value", func(t *testing.T) {
			_, err := newTestBinder(t).Bind([]string{"--domain"})

			var pe ParseError
			if !assert.ErrorAs(t, err, &pe) {
				return
			}
		})

		t.Run("if positional arguments are given", func(t *testing.T) {
			_, err := newTestBinder(t).Bind([]string{"--domain", "d", "extra"})

			var uae UnexpectedArgumentsError
			if !assert.ErrorAs(t, err, &uae) {
				return
			}
			if !assert.Equal(t, []string{"extra"}, uae.Args) {
				return
			}
		})
	})
}

func TestBinder_Usage(t *testing.T) {
	t.Run("will list built-in and application flags", func(t *testing.T) {
		t.Run("if build info is supplied", func(t *testing.T) {
			usage := newTestBinder(t, WithBuildInfo[config](BuildInfo{})).Usage()

			for _, flag := range []string{"--config-file", "--print-config", "--help", "--version", "--long-info", "--license", "--domain", "--auth-user", "--timeout"} {
				if !assert.Contains(t, usage, flag) {
					return
				}
			}
			if !assert.Contains(t, usage, "public domain") {
				return
			}
		})
	})

	t.Run("will not list build flags", func(t *testing.T) {
		t.Run("if no build info is supplied", func(t *testing.T) {
			usage := newTestBinder(t).Usage()
			if !assert.NotContains(t, usage, "--version") {
				return
			}
		})
	})

	t.Run("will show defaults", func(t *testing.T) {
		t.Run("if defaults are supplied except for secret fields", func(t *testing.T) {
			def := config{
				Domain:  "example.com",
				Timeout: time.Minute,
				Auth:    auth{Pwd: "hunter2"},
			}
			usage := newTestBinder(t, WithDefaults(def)).Usage()

			if !assert.Contains(t, usage, `(default "example.com")`) {
				return
			}
			if !assert.Contains(t, usage, "(default 1m0s)") {
				return
			}
			if !assert.NotContains(t, usage, "hunter2") {
				return
			}
		})
	})
}

func TestBinder_Message(t *testing.T) {
	bi := BuildInfo{
		Version:  "v1.2.3",
		Revision: "abc123",
		Modified: true,
		License:  "MIT License",
		Path:     "example.com/testapp",
	}
	b := newTestBinder(t, WithBuildInfo[config](bi))

	testCases := []struct {
		Directive Directive
		Contains  string
	}{
		{Directive: ShowHelp, Contains: "Usage:"},
		{Directive: ShowVersion, Contains: "testapp version v1.2.3"},
		{Directive: ShowInfo, Contains: "revision: abc123 (modified)"},
		{Directive: ShowLongInfo, Contains: "module: example.com/testapp"},
		{Directive: ShowLicense, Contains: "MIT License"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.Directive.String(), func(t *testing.T) {
			if !assert.Contains(t, b.Message(testCase.Directive), testCase.Contains) {
				return
			}
		})
	}

	t.Run("print-config", func(t *testing.T) {
		if !assert.Empty(t, b.Message(PrintConfig)) {
			return
		}
	})
}
