package server

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/df07/go-sphere-pathtracer/pkg/core"
)

// ConsoleMessage is a log line forwarded to the browser
type ConsoleMessage struct {
	RenderID  string    `json:"renderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by forwarding every line to a render's
// event stream as well as the server log
type WebLogger struct {
	renderID string
	send     func(ConsoleMessage)
}

// NewWebLogger creates a logger for one render. send may be nil.
func NewWebLogger(renderID string, send func(ConsoleMessage)) core.Logger {
	return &WebLogger{renderID: renderID, send: send}
}

// Printf implements core.Logger
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	log.Printf("[%s] %s", wl.renderID, strings.TrimSuffix(message, "\n"))

	if wl.send != nil {
		wl.send(ConsoleMessage{
			RenderID:  wl.renderID,
			Message:   message,
			Timestamp: time.Now(),
			Level:     levelOf(message),
		})
	}
}

// levelOf infers the level from the conventional message prefixes
func levelOf(message string) string {
	switch {
	case strings.HasPrefix(message, "Error"):
		return "error"
	case strings.HasPrefix(message, "Warning"), strings.HasPrefix(message, "Rendering cancelled"):
		return "warning"
	default:
		return "info"
	}
}
