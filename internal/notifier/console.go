package notifier

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/smallwins/internal/constants"
)

// ConsoleSender prints reminders to a writer. It is always available.
type ConsoleSender struct {
	w io.Writer
}

func NewConsoleSender(w io.Writer) *ConsoleSender {
	if w == nil {
		w = os.Stdout
	}
	return &ConsoleSender{w: w}
}

func (c *ConsoleSender) Name() string                       { return constants.ChannelConsole }
func (c *ConsoleSender) Available(ctx context.Context) bool { return true }

func (c *ConsoleSender) Send(ctx context.Context, title, body string) error {
	_, err := fmt.Fprintf(c.w, "[%s] %s: %s\n", time.Now().Format(constants.TimeFormat), title, body)
	return err
}
