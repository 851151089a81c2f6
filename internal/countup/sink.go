package countup

import (
	"errors"
	"io"
)

// ErrUnsupportedSink is returned by New when the target cannot display a string
var ErrUnsupportedSink = errors.New("countup: unsupported sink")

// ValueSink is a text field style target (e.g. *textinput.Model)
type ValueSink interface {
	SetValue(s string)
}

// TextSink is a text node style target
type TextSink interface {
	SetText(s string)
}

// ContentSink is a generic container whose whole content is replaced
// (e.g. *viewport.Model)
type ContentSink interface {
	SetContent(s string)
}

// SinkFunc adapts a plain function into a ContentSink
type SinkFunc func(s string)

// SetContent calls f(s)
func (f SinkFunc) SetContent(s string) { f(s) }

// SinkMode describes how a counter writes into its sink
type SinkMode int

const (
	ModeValue SinkMode = iota + 1
	ModeText
	ModeContent
	ModeWriter
)

func (m SinkMode) String() string {
	switch m {
	case ModeValue:
		return "value"
	case ModeText:
		return "text"
	case ModeContent:
		return "content"
	case ModeWriter:
		return "writer"
	default:
		return "unknown"
	}
}

// resolveSink picks the write mode for target, most specific first
func resolveSink(target any) (func(string), SinkMode, error) {
	switch t := target.(type) {
	case nil:
		return nil, 0, ErrUnsupportedSink
	case ValueSink:
		return t.SetValue, ModeValue, nil
	case TextSink:
		return t.SetText, ModeText, nil
	case ContentSink:
		return t.SetContent, ModeContent, nil
	case io.Writer:
		return func(s string) {
			// Display writes are best effort; a failed frame is simply not shown
			_, _ = io.WriteString(t, s)
		}, ModeWriter, nil
	default:
		return nil, 0, ErrUnsupportedSink
	}
}
