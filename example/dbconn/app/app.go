// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package app

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/accessor"
	"github.com/z5labs/strata/schema"
	"github.com/z5labs/strata/validate"
)

type Auth struct {
	User     string
	Password string
}

type Config struct {
	Host     string
	Port     int
	Database string
	Auth     Auth
	Timeout  time.Duration
	Params   []string
}

var DefaultConfig = Config{
	Host:    "localhost",
	Port:    5432,
	Timeout: 10 * time.Second,
}

var (
	host = accessor.New("host",
		func(c Config) string { return c.Host },
		func(c Config, v string) Config { c.Host = v; return c },
	)
	port = accessor.New("port",
		func(c Config) int { return c.Port },
		func(c Config, v int) Config { c.Port = v; return c },
	)
	database = accessor.New("database",
		func(c Config) string { return c.Database },
		func(c Config, v string) Config { c.Database = v; return c },
	)
	auth = accessor.New("auth",
		func(c Config) Auth { return c.Auth },
		func(c Config, v Auth) Config { c.Auth = v; return c },
	)
	user = accessor.New("user",
		func(a Auth) string { return a.User },
		func(a Auth, v string) Auth { a.User = v; return a },
	)
	password = accessor.New("password",
		func(a Auth) string { return a.Password },
		func(a Auth, v string) Auth { a.Password = v; return a },
	)
	timeout = accessor.New("timeout",
		func(c Config) time.Duration { return c.Timeout },
		func(c Config, v time.Duration) Config { c.Timeout = v; return c },
	)
	params = accessor.New("params",
		func(c Config) []string { return c.Params },
		func(c Config, v []string) Config { c.Params = v; return c },
	)
)

var Schema = schema.MustNew(append(
	[]schema.Field[Config]{
		schema.Bind(host, schema.Shorthand("H"), schema.Usage("database server host")),
		schema.Bind(port, schema.Usage("database server port")),
		schema.Bind(database, schema.Shorthand("d"), schema.Usage("database name")),
		schema.Bind(timeout, schema.Usage("connect timeout")),
		schema.Bind(params, schema.Usage("extra connection parameters as key=value")),
	},
	schema.Nest(auth, schema.MustNew(
		schema.Bind(user, schema.Usage("user to connect as")),
		schema.Bind(password, schema.Secret(), schema.Usage("password of the user")),
	))...,
)...)

var Validator = validate.All(
	validate.NonZero(host),
	validate.NonZero(database),
	validate.MustExpr[Config]("Port > 0 && Port < 65536", "port must be between 1 and 65535"),
	validate.Predicate("timeout must be positive", func(c Config) bool {
		return c.Timeout > 0
	}),
)

type app struct {
	dsn *url.URL
}

func Init(ctx context.Context, cfg Config) (strata.App, error) {
	q := url.Values{}
	q.Set("connect_timeout", strconv.Itoa(int(cfg.Timeout.Seconds())))
	for _, p := range cfg.Params {
		k, v, _ := strings.Cut(p, "=")
		q.Add(k, v)
	}

	dsn := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.Auth.User, cfg.Auth.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Database,
		RawQuery: q.Encode(),
	}
	return app{dsn: dsn}, nil
}

func (a app) Run(ctx context.Context) error {
	fmt.Println(a.dsn.Redacted())
	return nil
}
