package aspect

// Invocation describes one call to an around-advised target. A fresh
// Invocation is created for every call of the woven wrapper.
type Invocation struct {
	// Name is the advised member's name, empty for standalone targets.
	Name string
	// Args holds the call's arguments. Proceed forwards its current contents,
	// so advice may rewrite them before proceeding.
	Args []any

	method Func
}

// Proceed calls the original target with Args and returns its result.
// It may be called any number of times; the target does not run unless it is
// called at least once.
func (inv *Invocation) Proceed() (any, error) {
	return inv.method(inv.Args...)
}

// ProceedWith calls the original target with args instead of Args.
func (inv *Invocation) ProceedWith(args ...any) (any, error) {
	return inv.method(args...)
}

// AroundFunc is the natural signature of around advice.
type AroundFunc func(*Invocation) (any, error)

func (f AroundFunc) asFunc() Func {
	return func(args ...any) (any, error) {
		var first any
		if len(args) > 0 {
			first = args[0]
		}
		inv, ok := first.(*Invocation)
		if !ok || inv == nil {
			return nil, &ArgumentError{Index: 0, Want: invocationType, Value: first}
		}
		return f(inv)
	}
}
