package canvas

// StackOption configures a Stack during creation.
//
// Example:
//
//	st := canvas.NewStack(canvas.WithListener(canvas.ListenerFuncs{
//	    OnLayersChanged: view.Redraw,
//	}))
type StackOption func(*stackOptions)

// stackOptions holds optional configuration for Stack creation.
type stackOptions struct {
	listeners []Listener
}

// defaultStackOptions returns the default stack options.
func defaultStackOptions() stackOptions {
	return stackOptions{}
}

// WithListener registers a change listener at creation time.
// It may be given more than once.
func WithListener(l Listener) StackOption {
	return func(o *stackOptions) {
		if l != nil {
			o.listeners = append(o.listeners, l)
		}
	}
}
