// Package nplog is a small structured logger in the shape of esbuild's
// internal/logger: an AddMsg closure collects Msg values as they
// happen, rather than the resolver writing to stdout directly. It
// carries none of esbuild's source-map/terminal-width machinery, which
// a stateless specifier resolver has no use for.
package nplog

import "fmt"

// Kind classifies a logged message.
type Kind uint8

const (
	Info Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Msg is one emitted log line.
type Msg struct {
	Kind Kind
	Text string
}

// Log collects Msg values through AddMsg. The zero value discards
// everything, matching a resolver caller that passed no log.
type Log struct {
	AddMsg func(Msg)
}

// New builds a Log that appends every Msg to msgs.
func New(msgs *[]Msg) Log {
	return Log{
		AddMsg: func(m Msg) {
			*msgs = append(*msgs, m)
		},
	}
}

func (l Log) add(kind Kind, format string, args ...any) {
	if l.AddMsg == nil {
		return
	}
	l.AddMsg(Msg{Kind: kind, Text: fmt.Sprintf(format, args...)})
}

func (l Log) Info(format string, args ...any)    { l.add(Info, format, args...) }
func (l Log) Warning(format string, args ...any) { l.add(Warning, format, args...) }
func (l Log) Error(format string, args ...any)   { l.add(Error, format, args...) }

// Trace adapts Log into a resolver.TraceFunc-shaped closure (Info
// level), for wiring a Log into resolver.Context.Trace without the
// resolver package importing this one.
func (l Log) Trace() func(format string, args ...any) {
	return func(format string, args ...any) { l.Info(format, args...) }
}
