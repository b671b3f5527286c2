package cli

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/runner"
)

// WatchInterval is how often the workflow document is polled.
var WatchInterval = 500 * time.Millisecond

// Watch runs the chat in development mode: the conversation restarts on
// the reloaded workflow whenever the document changes, resuming the
// persisted session. The same handler is reused so there is one stdin reader.
func Watch(ctx context.Context, stack *Stack, opts ChatOptions, handler runner.IOHandler, logger *slog.Logger) error {
	if opts.Source == "" || strings.HasPrefix(opts.Source, SamplePrefix) {
		return errors.New("watch needs a workflow document path")
	}
	if opts.SessionID == "" {
		sum := sha256.Sum256([]byte(opts.Source))
		opts.SessionID = fmt.Sprintf("watch-%x", sum[:4])
	}
	logger.Info("watching workflow", "path", opts.Source, "session_id", opts.SessionID)

	for {
		reload, err := watchIteration(ctx, stack, opts, handler, logger)
		if err != nil {
			return err
		}
		if !reload {
			return nil
		}
		opts.Fresh = false
		logger.Info("workflow changed, reloading", "path", opts.Source)
		_ = handler.SystemOutput(ctx, "workflow changed, reloading")
	}
}

// watchIteration runs one conversation and reports whether it stopped
// because the document changed.
func watchIteration(ctx context.Context, stack *Stack, opts ChatOptions, handler runner.IOHandler, logger *slog.Logger) (bool, error) {
	stamp, err := statStamp(opts.Source)
	if err != nil {
		return false, err
	}

	iterCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	changed := make(chan struct{})
	go func() {
		if waitForChange(iterCtx, opts.Source, stamp) {
			close(changed)
			cancel()
		}
	}()

	err = Chat(iterCtx, stack, opts, handler, logger)
	select {
	case <-changed:
		return true, nil
	default:
	}
	if err != nil && !isReloadable(err) {
		return false, err
	}
	if errors.Is(err, domain.ErrUnknownTargetNode) {
		// The saved position no longer exists in the edited workflow.
		logger.Warn("discarding session", "session_id", opts.SessionID, "err", err)
		_ = handler.SystemOutput(ctx, "saved position is gone, starting over")
		if err := stack.Sessions.Delete(ctx, opts.SessionID); err != nil {
			return false, err
		}
		return true, nil
	}
	if err != nil {
		logger.Warn("workflow rejected", "path", opts.Source, "err", err)
		_ = handler.SystemOutput(ctx, "error: "+err.Error())
		select {
		case <-changed:
			return true, nil
		case <-ctx.Done():
			return false, nil
		}
	}
	return false, nil
}

// isReloadable reports whether err came from the document or session
// content rather than from IO, so a fixed document may recover.
func isReloadable(err error) bool {
	var pathErr *os.PathError
	return !errors.As(err, &pathErr) && !errors.Is(err, context.Canceled)
}

type fileStamp struct {
	mod  time.Time
	size int64
}

func statStamp(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}, nil
}

// waitForChange polls path until its stamp differs from last or ctx is done.
func waitForChange(ctx context.Context, path string, last fileStamp) bool {
	ticker := time.NewTicker(WatchInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			cur, err := statStamp(path)
			if err != nil {
				continue
			}
			if !cur.mod.Equal(last.mod) || cur.size != last.size {
				return true
			}
		}
	}
}
