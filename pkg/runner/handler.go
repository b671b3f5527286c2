package runner

import (
	"context"

	"github.com/aretw0/switchboard/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents one engine reply.
	Output(ctx context.Context, reply domain.Reply) error

	// Input reads the next user line. io.EOF ends the conversation.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (notices, command output),
	// distinct from bot content.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms text before it is written, e.g. markdown to
// ANSI. On error the raw text is written.
type ContentRenderer func(string) (string, error)
