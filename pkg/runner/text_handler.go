package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// TextHandler reads sanitized lines and writes the transcript.
type TextHandler struct {
	Reader *bufio.Reader
	Writer io.Writer
	// MaxLineSize caps a single line in bytes.
	MaxLineSize int

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &TextHandler{
		Reader:      bufio.NewReader(r),
		Writer:      w,
		MaxLineSize: LimitsFromEnv().Line,
	}
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads in the background so Input can give up on an interrupt
// while a read is still blocked.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')

		if text != "" {
			h.inputChan <- inputResult{text: text}
		}

		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			time.Sleep(50 * time.Millisecond)
		}
	}
}

func (h *TextHandler) lineLimit() int {
	if h.MaxLineSize > 0 {
		return h.MaxLineSize
	}
	return DefaultLimits().Line
}

// Print writes a block of transcript followed by a newline.
func (h *TextHandler) Print(s string) {
	fmt.Fprintln(h.Writer, strings.TrimRight(s, "\n"))
}

// SystemOutput presents a meta-message, distinct from conversation content.
func (h *TextHandler) SystemOutput(msg string) {
	fmt.Fprintf(h.Writer, "[System] %s\n", msg)
}

// Input prompts and returns the next sanitized line.
// Lines that fail sanitization are reported and read again.
func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
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

			clean, err := SanitizeInput(strings.TrimSpace(res.text), h.lineLimit())
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return clean, nil
		}
	}
}
