package pdftext

import (
	"bytes"
	"context"
	"log/slog"
	"os/exec"
	"time"
)

// Runner lets us stub external commands in tests.
type Runner interface {
	Run(ctx context.Context, name string, logger *slog.Logger, args ...string) (stdout, stderr []byte, err error)
}

// killGrace bounds how long a cancelled command may keep its pipes open.
const killGrace = 2 * time.Second

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, logger *slog.Logger, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = killGrace
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	attrs := []any{
		"cmd", name,
		"args", args,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	switch {
	case ctx.Err() != nil:
		// the deadline killed the process; report that rather than "signal: killed"
		err = ctx.Err()
		logger.Warn("command cancelled", append(attrs, "error", err)...)
	case err != nil:
		// the caller decides whether a failing page matters
		logger.Debug("command failed", append(attrs, "error", err, "stderr", truncate(errb.String(), 2<<10))...)
	default:
		logger.Debug("command ok", append(attrs, "stdout_bytes", out.Len())...)
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
