package aspect

import (
	"fmt"
	"math"
	"reflect"
)

// Func is the uniform shape of advised targets, advisers and woven wrappers:
// an ordered argument list in, a single value and an error out.
type Func func(args ...any) (any, error)

var (
	errorType      = reflect.TypeOf((*error)(nil)).Elem()
	funcType       = reflect.TypeOf(Func(nil))
	invocationType = reflect.TypeOf((*Invocation)(nil))
)

// Adapt converts fn into a Func.
//
// Func values, func(...any) (any, error) and AroundFunc values are used as is.
// Any other function is called through reflection: missing arguments are
// passed as zero values, surplus arguments are dropped unless the function is
// variadic, and numeric arguments are converted to the parameter's numeric
// type. A trailing error result becomes the returned error; several remaining
// results are returned together as a []any.
func Adapt(fn any) (Func, error) {
	switch f := fn.(type) {
	case nil:
		return nil, ErrNotCallable
	case Func:
		if f == nil {
			return nil, fmt.Errorf("%w: nil Func", ErrNotCallable)
		}
		return f, nil
	case func(...any) (any, error):
		if f == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrNotCallable, fn)
		}
		return Func(f), nil
	case AroundFunc:
		if f == nil {
			return nil, fmt.Errorf("%w: nil AroundFunc", ErrNotCallable)
		}
		return f.asFunc(), nil
	case func(*Invocation) (any, error):
		if f == nil {
			return nil, fmt.Errorf("%w: nil %T", ErrNotCallable, fn)
		}
		return AroundFunc(f).asFunc(), nil
	}

	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("%w: %T", ErrNotCallable, fn)
	}
	return reflectFunc(v), nil
}

// As returns fn viewed as the Go function type F. If F has no trailing error
// result, an error returned by fn is raised as a panic.
func As[F any](fn Func) (F, error) {
	var zero F
	if fn == nil {
		return zero, ErrNotCallable
	}
	t := reflect.TypeOf((*F)(nil)).Elem()
	if t == funcType {
		return any(fn).(F), nil
	}
	if t.Kind() != reflect.Func {
		return zero, fmt.Errorf("%w: %s", ErrNotCallable, t)
	}
	return makeTyped(fn, t).Interface().(F), nil
}

func reflectFunc(v reflect.Value) Func {
	t := v.Type()
	return func(args ...any) (any, error) {
		in, err := callArgs(t, args)
		if err != nil {
			return nil, err
		}
		return unpackResults(t, v.Call(in))
	}
}

func callArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}

	in := make([]reflect.Value, 0, max(t.NumIn(), len(args)))
	for i := 0; i < fixed; i++ {
		var arg any
		if i < len(args) {
			arg = args[i]
		}
		val, ok := coerce(arg, t.In(i))
		if !ok {
			return nil, &ArgumentError{Index: i, Want: t.In(i), Value: arg}
		}
		in = append(in, val)
	}

	if t.IsVariadic() {
		elem := t.In(fixed).Elem()
		for i := fixed; i < len(args); i++ {
			val, ok := coerce(args[i], elem)
			if !ok {
				return nil, &ArgumentError{Index: i, Want: elem, Value: args[i]}
			}
			in = append(in, val)
		}
	}
	return in, nil
}

func unpackResults(t reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && t.Out(n-1) == errorType {
		if e, ok := out[n-1].Interface().(error); ok {
			err = e
		}
		out = out[:n-1]
	}

	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	values := make([]any, len(out))
	for i, v := range out {
		values[i] = v.Interface()
	}
	return values, err
}

func makeTyped(fn Func, t reflect.Type) reflect.Value {
	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		args := make([]any, 0, len(in))
		for i, v := range in {
			if t.IsVariadic() && i == len(in)-1 {
				for j := 0; j < v.Len(); j++ {
					args = append(args, v.Index(j).Interface())
				}
				continue
			}
			args = append(args, v.Interface())
		}
		result, err := fn(args...)
		return packResults(t, result, err)
	})
}

func packResults(t reflect.Type, result any, err error) []reflect.Value {
	n := t.NumOut()
	out := make([]reflect.Value, n)

	if n > 0 && t.Out(n-1) == errorType {
		n--
		out[n] = reflect.New(errorType).Elem()
		if err != nil {
			out[n].Set(reflect.ValueOf(err))
		}
	} else if err != nil {
		panic(err)
	}

	values := []any{result}
	if n > 1 {
		values, _ = result.([]any)
	}
	for i := 0; i < n; i++ {
		var v any
		if i < len(values) {
			v = values[i]
		}
		val, ok := coerce(v, t.Out(i))
		if !ok {
			if err != nil {
				val = reflect.Zero(t.Out(i))
			} else {
				panic(&ArgumentError{Index: i, Want: t.Out(i), Value: v})
			}
		}
		out[i] = val
	}
	return out
}

// coerce returns arg as a value of exactly type want. Nil becomes the zero
// value; numbers are converted between numeric kinds when the value survives
// the conversion intact.
func coerce(arg any, want reflect.Type) (reflect.Value, bool) {
	out := reflect.New(want).Elem()
	if arg == nil {
		return out, true
	}
	v := reflect.ValueOf(arg)
	switch {
	case v.Type().AssignableTo(want):
		out.Set(v)
	case isNumeric(v.Kind()) && isNumeric(want.Kind()):
		if !fitsNumber(v, want) {
			return reflect.Value{}, false
		}
		out.Set(v.Convert(want))
	default:
		return reflect.Value{}, false
	}
	return out, true
}

// fitsNumber reports whether v converts to want without overflow and, for
// integer targets, without dropping a fractional part.
func fitsNumber(v reflect.Value, want reflect.Type) bool {
	bounds := reflect.Zero(want)
	switch {
	case isInt(want.Kind()):
		switch {
		case isInt(v.Kind()):
			return !bounds.OverflowInt(v.Int())
		case isUint(v.Kind()):
			u := v.Uint()
			return u <= math.MaxInt64 && !bounds.OverflowInt(int64(u))
		default:
			f := v.Float()
			return f == math.Trunc(f) && f >= -(1<<63) && f < 1<<63 && !bounds.OverflowInt(int64(f))
		}
	case isUint(want.Kind()):
		switch {
		case isInt(v.Kind()):
			i := v.Int()
			return i >= 0 && !bounds.OverflowUint(uint64(i))
		case isUint(v.Kind()):
			return !bounds.OverflowUint(v.Uint())
		default:
			f := v.Float()
			return f == math.Trunc(f) && f >= 0 && f < 1<<64 && !bounds.OverflowUint(uint64(f))
		}
	default:
		if isFloat(v.Kind()) {
			return !bounds.OverflowFloat(v.Float())
		}
		return true
	}
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
