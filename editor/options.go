package editor

import (
	"github.com/google/uuid"

	"github.com/gogpu/canvas"
	"github.com/gogpu/canvas/history"
	"github.com/gogpu/canvas/tool"
)

// Option configures a Document during creation.
//
// Example:
//
//	doc := editor.New(
//	    editor.WithHistoryDepth(50),
//	    editor.WithSettings(settings),
//	)
type Option func(*options)

type options struct {
	historyDepth int
	settings     *tool.Settings
	id           uuid.UUID
	listeners    []canvas.Listener
}

func defaultOptions() options {
	return options{historyDepth: history.DefaultMaxDepth}
}

// WithHistoryDepth sets how many edits can be undone. Values below 1 are
// ignored.
func WithHistoryDepth(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.historyDepth = n
		}
	}
}

// WithSettings shares s with the document's tools. Without it the
// document uses tool.DefaultSettings.
func WithSettings(s *tool.Settings) Option {
	return func(o *options) {
		o.settings = s
	}
}

// WithID fixes the document identity, e.g. when resuming from a
// checkpoint. By default a random ID is generated.
func WithID(id uuid.UUID) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithListener registers a change listener on the document's stack.
func WithListener(l canvas.Listener) Option {
	return func(o *options) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}
