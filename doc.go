// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package strata resolves the configuration of a command-line program
// from layered sources.
//
// A configuration starts out as a compiled-in default value. Documents
// named by the program's built-in sources and by every --config-file flag
// are then applied in order, followed by the program's own command-line
// flags, and the result is validated before the program body runs:
//
//	default < built-in sources < --config-file sources < flags
//
// Documents and flags never replace the configuration wholesale. Each is
// decoded into a sparse [update.Updater] which only writes the fields it
// mentions, so a later source overrides an earlier one field by field.
//
// # Basic Usage
//
// Describe the configurable fields with accessors and a [schema.Schema]:
//
//	var domain = accessor.New("domain",
//	    func(c Config) string { return c.Domain },
//	    func(c Config, v string) Config { c.Domain = v; return c },
//	)
//
//	info := strata.MustProgramInfo("myapp", Config{}, schema.MustNew(schema.Bind(domain)),
//	    strata.Sources("/etc/myapp/config.yaml"),
//	    strata.Validate(validate.NonZero(domain)),
//	)
//
// Then hand the program body to [Main]:
//
//	strata.Main(info, strata.AppBuilderFunc[Config](func(ctx context.Context, cfg Config) (strata.App, error) {
//	    return strata.AppFunc(func(ctx context.Context) error {
//	        return serve(ctx, cfg)
//	    }), nil
//	}))
//
// The program then accepts --config-file/-c, --print-config/-p, --help/-h
// and a --domain flag.
package strata
