package media

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"yt-ingest/utils"
)

// runCommand executes an external tool, returning stdout. Stderr rides along
// in the error so failures are diagnosable from logs alone.
func runCommand(ctx context.Context, logger zerolog.Logger, bin string, args ...string) ([]byte, error) {
	logger.Debug().
		Str("bin", bin).
		Str("args", utils.TruncateString(strings.Join(args, " "), 200)).
		Msg("Executing command")

	cmd := exec.CommandContext(ctx, bin, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail == "" {
			detail = err.Error()
		}
		return nil, errors.Wrapf(err, "%s: %s", bin, utils.TruncateString(detail, 500))
	}

	return stdout.Bytes(), nil
}
