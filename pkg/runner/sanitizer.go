package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Environment overrides for DefaultLimits.
const (
	EnvMaxLineSize      = "STYLIST_MAX_LINE_SIZE"
	EnvMaxRequestSize   = "STYLIST_MAX_REQUEST_SIZE"
	EnvMaxRecordingSize = "STYLIST_MAX_RECORDING_SIZE"
)

var (
	ErrInputTooLarge     = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8       = errors.New("input contains invalid UTF-8 sequences")
	ErrRecordingTooLarge = errors.New("recording exceeds maximum allowed size")
)

// Limits bounds what the terminal hands to a session.
type Limits struct {
	// Line caps any typed line: commands, outfit numbers and file paths.
	Line int
	// Request caps the style request appended to the log at the final step.
	// It is sent to the AI collaborator on every reply, so it is kept short.
	Request int
	// Recording caps the voice note file read at the lifestyle step, in bytes.
	Recording int64
}

// DefaultLimits returns the limits used when nothing overrides them.
func DefaultLimits() Limits {
	return Limits{
		Line:      4096,
		Request:   1000,
		Recording: 10 << 20,
	}
}

// LimitsFromEnv returns DefaultLimits with the STYLIST_MAX_* overrides applied.
// Values that are not positive integers are ignored.
func LimitsFromEnv() Limits {
	l := DefaultLimits()
	if n, ok := envSize(EnvMaxLineSize); ok {
		l.Line = int(n)
	}
	if n, ok := envSize(EnvMaxRequestSize); ok {
		l.Request = int(n)
	}
	if n, ok := envSize(EnvMaxRecordingSize); ok {
		l.Recording = n
	}
	return l
}

// SanitizeInput enforces limit (in bytes), validates UTF-8 and strips
// control characters other than newline, tab and carriage return.
func SanitizeInput(input string, limit int) (string, error) {
	if len(input) > limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, isUnsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if isUnsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

// SanitizeRequest prepares a style request for the conversation log.
func (l Limits) SanitizeRequest(text string) (string, error) {
	clean, err := SanitizeInput(text, l.Request)
	if err != nil {
		return "", fmt.Errorf("style request: %w", err)
	}
	return clean, nil
}

// ReadRecording reads a voice note from path, refusing files over the recording limit.
func (l Limits) ReadRecording(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if info.Size() > l.Recording {
		return nil, fmt.Errorf("%w: size=%d limit=%d", ErrRecordingTooLarge, info.Size(), l.Recording)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	return data, nil
}

func isUnsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func envSize(name string) (int64, bool) {
	val := os.Getenv(name)
	if val == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
