/*package error contains the error kinds returned by athcheck's decoders and
simple functions for reporting fatal athcheck errors.
*/
package error

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Error kinds. Every *DecodeError wraps exactly one of these, so callers can
// test for them with errors.Is.
var (
	// ErrFormatMismatch means an expected token was not found at the current
	// position of a file.
	ErrFormatMismatch = errors.New("format mismatch")
	// ErrTruncatedInput means a file ended before a block of declared length
	// was complete.
	ErrTruncatedInput = errors.New("truncated input")
	// ErrInvalidArgument means the caller asked for something the decoder
	// does not support.
	ErrInvalidArgument = errors.New("invalid argument")
)

// DecodeError describes where and why a decode failed.
type DecodeError struct {
	Kind error
	File string // May be empty if the input didn't come from a file.
	Offset int // Byte offset, -1 if unknown.
	Line int // 1-indexed line number, 0 if unknown.
	Expected, Found string
	Msg string
}

func (e *DecodeError) Error() string {
	loc := ""
	if e.File != "" { loc = e.File + ": " }
	if e.Line > 0 {
		loc += fmt.Sprintf("line %d: ", e.Line)
	} else if e.Offset >= 0 {
		loc += fmt.Sprintf("byte %d: ", e.Offset)
	}

	msg := e.Msg
	if msg == "" && e.Expected != "" {
		msg = fmt.Sprintf("expected %q, found %q", e.Expected, e.Found)
	}
	if msg == "" { return loc + e.Kind.Error() }
	return fmt.Sprintf("%s%s: %s", loc, e.Kind.Error(), msg)
}

func (e *DecodeError) Unwrap() error { return e.Kind }

// Mismatch creates an ErrFormatMismatch error for the given offset.
func Mismatch(offset int, expected, found string) *DecodeError {
	return &DecodeError{
		Kind: ErrFormatMismatch, Offset: offset,
		Expected: expected, Found: found,
	}
}

// Truncated creates an ErrTruncatedInput error for a block that needed need
// bytes starting at offset, but only had have.
func Truncated(offset, need, have int) *DecodeError {
	return &DecodeError{
		Kind: ErrTruncatedInput, Offset: offset,
		Msg: fmt.Sprintf("needed %d bytes, but only %d remain", need, have),
	}
}

// LineErrorf creates an error of the given kind associated with a line of a
// text file.
func LineErrorf(kind error, line int, format string, a ...interface{}) *DecodeError {
	return &DecodeError{
		Kind: kind, Offset: -1, Line: line, Msg: fmt.Sprintf(format, a...),
	}
}

// InvalidArgument creates an ErrInvalidArgument error. It has the same
// signature as the standard fmt.*printf() functions.
func InvalidArgument(format string, a ...interface{}) *DecodeError {
	return &DecodeError{
		Kind: ErrInvalidArgument, Offset: -1, Msg: fmt.Sprintf(format, a...),
	}
}

// WithFile attaches a file name to err if it is a *DecodeError and returns
// it. Other errors are returned unchanged.
func WithFile(err error, fileName string) error {
	var de *DecodeError
	if errors.As(err, &de) && de.File == "" { de.File = fileName }
	return err
}

// Logger is used by External and Internal. It writes logfmt to stderr unless
// replaced.
var Logger = log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))

// Exit is called by External and Internal. Tests replace it to keep the
// process alive.
var Exit = os.Exit

// External reports an error and kills the program. It should be used when an
// error is something a user could reasonbly be expected to fix through
// changes in configuration/data/environment. It has the same signature as
// the standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	level.Error(Logger).Log(
		"msg", "athcheck exited early", "err", fmt.Sprintf(format, a...),
	)
	Exit(1)
}

// Internal reports an error along with a stack trace and kills the program.
// It should be used when the error requires a code dive to fix.
func Internal(format string, a ...interface{}) {
	level.Error(Logger).Log(
		"msg", "athcheck exited early with an internal error",
		"err", fmt.Sprintf(format, a...),
	)
	fmt.Fprintf(os.Stderr, "\n")
	debug.PrintStack()
	Exit(1)
}
