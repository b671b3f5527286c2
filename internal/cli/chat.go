package cli

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/presentation/tui"
	"github.com/aretw0/switchboard/pkg/runner"
)

// ChatOptions configures an interactive conversation.
type ChatOptions struct {
	// Source is the workflow document path or "sample:<name>".
	Source string
	// SessionID persists the conversation; empty means ephemeral.
	SessionID string
	// Fresh deletes the persisted session before starting.
	Fresh bool
	// JSON switches to JSON-Lines IO.
	JSON bool
	// Headless disables the prompt, banner and styling.
	Headless bool
	// Verbose prints transition labels.
	Verbose bool
	// Watch reloads the workflow document when it changes.
	Watch bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTerminalWriter reports whether w is a terminal file.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && IsTerminal(f)
}

// NewIOHandler picks the runner IO for the options. Output that is not a
// terminal is written without prompt or ANSI styling.
func NewIOHandler(opts ChatOptions, in io.Reader, out io.Writer, interactive bool) runner.IOHandler {
	if opts.JSON {
		return runner.NewJSONHandler(in, out)
	}
	headless := opts.Headless || !interactive
	textOpts := []runner.TextHandlerOption{
		runner.WithHeadless(headless),
		runner.WithVerbose(opts.Verbose),
	}
	if !headless {
		styles := tui.NewStyles(termenv.NewOutput(out).ColorProfile())
		textOpts = append(textOpts,
			runner.WithTextRenderer(styles.Bot),
			runner.WithSystemRenderer(styles.System),
		)
	}
	return runner.NewTextHandler(in, out, textOpts...)
}

// RunChat runs one conversation on stack over stdin/stdout.
func RunChat(ctx context.Context, stack *Stack, opts ChatOptions, logger *slog.Logger) error {
	interactive := IsTerminal(os.Stdin) && IsTerminal(os.Stdout)
	handler := NewIOHandler(opts, os.Stdin, os.Stdout, interactive)

	if interactive && !opts.JSON && !opts.Headless {
		tui.PrintBanner(os.Stdout)
	}
	if opts.Watch {
		return Watch(ctx, stack, opts, handler, logger)
	}
	return Chat(ctx, stack, opts, handler, logger)
}

// Chat runs one conversation with handler.
func Chat(ctx context.Context, stack *Stack, opts ChatOptions, handler runner.IOHandler, logger *slog.Logger) error {
	name, w, err := OpenWorkflow(opts.Source)
	if err != nil {
		return err
	}
	if opts.Fresh && opts.SessionID != "" {
		if err := stack.Sessions.Delete(ctx, opts.SessionID); err != nil {
			return err
		}
	}

	r := runner.NewRunner(
		runner.WithEngine(stack.Engine),
		runner.WithInputHandler(handler),
		runner.WithLogger(logger),
		runner.WithSessions(stack.Sessions, opts.SessionID, name),
		runner.WithBanner(bannerFor(opts, name)),
	)
	return r.Run(ctx, w)
}

func bannerFor(opts ChatOptions, name string) string {
	if opts.JSON || opts.Headless {
		return ""
	}
	return "--- switchboard " + switchboard.Version + " · " + name + " (/reset, /slots, /quit) ---"
}
