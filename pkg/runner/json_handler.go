package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Event types written by JSONHandler.
const (
	EventReply  = "reply"
	EventSystem = "system"
)

// Event is one line of JSONHandler output.
type Event struct {
	Type    string        `json:"type"`
	Reply   *domain.Reply `json:"reply,omitempty"`
	Message string        `json:"message,omitempty"`
}

// JSONHandler implements IOHandler for JSON-Lines communication.
// Input lines may be a JSON string, an object with a "message" field or
// raw text.
type JSONHandler struct {
	Reader  *bufio.Reader
	Encoder *json.Encoder
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Encoder: json.NewEncoder(w),
	}
}

// Output emits the reply as a single JSON line.
func (h *JSONHandler) Output(_ context.Context, reply domain.Reply) error {
	return h.Encoder.Encode(Event{Type: EventReply, Reply: &reply})
}

// Input reads one line. Blank lines are returned as empty messages.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		return "", err
	}
	text = strings.TrimSpace(text)

	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return val, nil
	}
	var obj struct {
		Message string `json:"message"`
	}
	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &obj); err == nil {
			return obj.Message, nil
		}
	}
	return text, nil
}

// SystemOutput emits msg as a system event.
func (h *JSONHandler) SystemOutput(_ context.Context, msg string) error {
	return h.Encoder.Encode(Event{Type: EventSystem, Message: msg})
}
