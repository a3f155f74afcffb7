package engine

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

// Logger is the line-oriented sink for UCI protocol output. The search
// writes one "info ..." line per completed iteration and a final
// "bestmove ..." line.
type Logger interface {
	Println(line string)
}

// NewLogger returns a Logger writing newline-terminated lines to w.
func NewLogger(w io.Writer) Logger {
	return &writerLogger{w: w}
}

type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) Println(line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(l.w, line)
	io.WriteString(l.w, "\n")
}

// diag is the diagnostic event log, kept strictly off the protocol stream.
var diag = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.WarnLevel).
	With().Timestamp().Logger()

// SetDiagLevel adjusts the diagnostic log verbosity.
func SetDiagLevel(level zerolog.Level) {
	diag = diag.Level(level)
}
