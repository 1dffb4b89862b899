// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"log/slog"
	"os"

	"github.com/z5labs/strata"
	"github.com/z5labs/strata/cli"
	"github.com/z5labs/strata/example/dbconn/app"
)

func main() {
	bi := cli.ReadBuildInfo()
	bi.License = "MIT License"

	strata.Main(
		strata.MustProgramInfo(
			"dbconn",
			app.DefaultConfig,
			app.Schema,
			strata.Sources("dbconn.yaml"),
			strata.Build(bi),
			strata.Templates(),
			strata.Validate(app.Validator),
		),
		strata.AppBuilderFunc[app.Config](app.Init),
		strata.WithLogHandler(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelWarn,
		})),
	)
}
