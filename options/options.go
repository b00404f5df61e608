// Package options implements the key/value option bag consumed by the
// design builder (the "params" option selecting categorical encoding).
package options

// ParamsCenterpoint and ParamsDummy are the recognized values of the
// "params" option.
const (
	ParamsCenterpoint = "centerpoint"
	ParamsDummy       = "dummy"
)

// Options is a small string-keyed option bag. It is not safe for
// concurrent use, matching the single-threaded model of the rest of this
// module.
type Options struct {
	kv map[string]string
}

// New returns an Options value with the documented defaults applied.
func New() *Options {
	o := &Options{kv: make(map[string]string)}
	o.Set("params", ParamsCenterpoint)
	return o
}

// Get returns the value for k, and whether it was set.
func (o *Options) Get(k string) (string, bool) {
	v, ok := o.kv[k]
	return v, ok
}

// GetDefault returns the value for k, or def if it is unset.
func (o *Options) GetDefault(k, def string) string {
	if v, ok := o.kv[k]; ok {
		return v
	}
	return def
}

// Set assigns a value to a key, overwriting any previous value.
func (o *Options) Set(k, v string) {
	o.kv[k] = v
}
