package cli

import (
	"context"

	"github.com/rotisserie/eris"

	"transcriptome/app/internal/app/bootstrap"
	"transcriptome/app/internal/config"
	applog "transcriptome/app/internal/platform/log"
)

// openData wires the transcript service for commands that print to stdout. Logging is discarded
// so it cannot interleave with command output.
func openData(ctx context.Context) (bootstrap.Data, error) {
	cfg, err := config.Load()
	if err != nil {
		return bootstrap.Data{}, eris.Wrap(err, "failure loading configuration")
	}

	return bootstrap.BuildData(ctx, bootstrap.Dependencies{
		Config: *cfg,
		Logger: applog.Discard(),
	})
}
