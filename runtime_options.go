package mirror

var defaultOptions = options{}

type Option interface {
	apply(*options)
}
type options struct {
	hook DispatchHook
}
type funcOption struct {
	f func(*options)
}

func (fdo *funcOption) apply(do *options) {
	fdo.f(do)
}
func newFuncOption(f func(*options)) *funcOption {
	return &funcOption{
		f: f,
	}
}

// WithDispatchHook installs a dispatch hook at construction time. It is
// equivalent to calling SetDispatchHook on the new Runtime.
func WithDispatchHook(hook DispatchHook) Option {
	return newFuncOption(func(o *options) {
		o.hook = hook
	})
}
