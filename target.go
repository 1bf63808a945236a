package aspect

import (
	"errors"
	"fmt"
	"reflect"
)

// Object is a bag of named members whose function-valued entries can be
// advised and replaced in place.
type Object map[string]any

// Call invokes the current value of member name with args.
func (o Object) Call(name string, args ...any) (any, error) {
	member, ok := o[name]
	if !ok {
		return nil, fmt.Errorf("%w: object has no member %q", ErrInvalidTarget, name)
	}
	fn, err := Adapt(member)
	if err != nil {
		return nil, fmt.Errorf("%w: member %q: %w", ErrInvalidTarget, name, err)
	}
	return fn(args...)
}

// MethodRef names a member of an object. It is created with Method and may be
// passed wherever a target or an adviser is expected.
//
// The object may be an Object or any other map convertible to one, a pointer
// to a struct with an exported field of function type, or any value with a
// method of that name. Methods declared in Go can be used as advisers but
// cannot be replaced, so weaving onto them fails with ErrNotInstallable.
//
// A wrapper installed into a typed struct field whose type lacks a trailing
// error result panics when the adviser or the target fails, or when the
// result cannot be converted to the field's result type.
type MethodRef struct {
	obj  any
	name string
}

// Method references member name of obj.
func Method(obj any, name string) MethodRef {
	return MethodRef{obj: obj, name: name}
}

// slot is a replaceable member holding a function.
type slot interface {
	store(fn Func)
}

type objectSlot struct {
	obj  Object
	name string
}

func (s objectSlot) store(fn Func) {
	s.obj[s.name] = fn
}

type fieldSlot struct {
	field reflect.Value
}

func (s fieldSlot) store(fn Func) {
	switch {
	case s.field.Type() == funcType:
		s.field.Set(reflect.ValueOf(fn))
	case s.field.Kind() == reflect.Func:
		s.field.Set(makeTyped(fn, s.field.Type()))
	default:
		s.field.Set(reflect.ValueOf(fn))
	}
}

// resolved is a target or adviser captured at weave time.
type resolved struct {
	fn    Func
	slot  slot
	name  string
	bound bool
}

var (
	errNilObject = errors.New("nil object")
	objectType   = reflect.TypeOf(Object(nil))
)

// asObject views maps such as map[string]any as an Object sharing the same
// storage, so installed wrappers are visible through the caller's map.
func asObject(v any) (Object, bool) {
	if obj, ok := v.(Object); ok {
		return obj, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || !rv.CanConvert(objectType) {
		return nil, false
	}
	return rv.Convert(objectType).Interface().(Object), true
}

func resolveCallable(v any) (resolved, error) {
	ref, ok := v.(MethodRef)
	if !ok {
		fn, err := Adapt(v)
		if err != nil {
			return resolved{}, err
		}
		return resolved{fn: fn}, nil
	}

	fn, s, err := ref.lookup()
	if err != nil {
		return resolved{}, err
	}
	return resolved{fn: fn, slot: s, name: ref.name, bound: true}, nil
}

func (m MethodRef) lookup() (Func, slot, error) {
	if m.obj == nil {
		return nil, nil, errNilObject
	}

	if obj, ok := asObject(m.obj); ok {
		member, ok := obj[m.name]
		if !ok {
			return nil, nil, fmt.Errorf("object has no member %q", m.name)
		}
		fn, err := Adapt(member)
		if err != nil {
			return nil, nil, fmt.Errorf("member %q: %w", m.name, err)
		}
		return fn, objectSlot{obj: obj, name: m.name}, nil
	}

	v := reflect.ValueOf(m.obj)
	if v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Struct {
		field := v.Elem().FieldByName(m.name)
		if field.IsValid() && field.CanSet() {
			fn, err := Adapt(field.Interface())
			if err != nil {
				return nil, nil, fmt.Errorf("field %q: %w", m.name, err)
			}
			if field.Kind() != reflect.Func && !funcType.AssignableTo(field.Type()) {
				return fn, nil, nil
			}
			return fn, fieldSlot{field: field}, nil
		}
	}

	if method := v.MethodByName(m.name); method.IsValid() {
		return reflectFunc(method), nil, nil
	}
	return nil, nil, fmt.Errorf("%T has no member %q", m.obj, m.name)
}
