package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/switchboard/pkg/domain"
)

// TextHandler implements IOHandler for terminals and pipes.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer

	// Renderer transforms bot text.
	Renderer ContentRenderer
	// SystemRenderer transforms system lines so they stand apart.
	SystemRenderer ContentRenderer
	// Headless suppresses the "> " prompt.
	Headless bool
	// Verbose also prints the edge label of each transition.
	Verbose bool

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextRenderer configures the bot content renderer.
func WithTextRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) { h.Renderer = renderer }
}

// WithSystemRenderer configures the renderer for system lines.
func WithSystemRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) { h.SystemRenderer = renderer }
}

// WithHeadless disables the prompt.
func WithHeadless(headless bool) TextHandlerOption {
	return func(h *TextHandler) { h.Headless = headless }
}

// WithVerbose prints transition labels.
func WithVerbose(verbose bool) TextHandlerOption {
	return func(h *TextHandler) { h.Verbose = verbose }
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// initPump reads lines in the background so Input can honor ctx.
func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

func (h *TextHandler) pump() {
	defer close(h.inputChan)
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			return
		}
	}
}

// Output writes the reply text and any error or warning notice.
func (h *TextHandler) Output(ctx context.Context, reply domain.Reply) error {
	if h.Verbose && reply.Transition != "" {
		if err := h.SystemOutput(ctx, "Transition: "+reply.Transition); err != nil {
			return err
		}
	}
	if reply.Text != "" {
		if _, err := fmt.Fprintln(h.Writer, strings.TrimSpace(render(h.Renderer, reply.Text))); err != nil {
			return err
		}
	}
	if reply.Error != domain.ErrorKindNone {
		if err := h.SystemOutput(ctx, "error: "+string(reply.Error)); err != nil {
			return err
		}
	}
	if reply.Warning == domain.WarningDeadEnd {
		return h.SystemOutput(ctx, "this step has no way forward; type /reset to start over")
	}
	return nil
}

// Input prompts and returns the next trimmed line.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
		if !h.Headless {
			fmt.Fprint(h.Writer, "> ")
		}
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-h.inputChan:
		if !ok {
			return "", io.EOF
		}
		if res.err != nil {
			return "", res.err
		}
		return strings.TrimSpace(res.text), nil
	}
}

// SystemOutput writes msg through the system renderer.
func (h *TextHandler) SystemOutput(_ context.Context, msg string) error {
	_, err := fmt.Fprintln(h.Writer, render(h.SystemRenderer, msg))
	return err
}

func render(r ContentRenderer, text string) string {
	if r == nil {
		return text
	}
	out, err := r(text)
	if err != nil {
		return text
	}
	return out
}
