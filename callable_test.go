package aspect

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestAdaptFillsAndDropsArguments(t *testing.T) {
	fn, err := Adapt(func(a int, b string) string {
		return strings.Repeat(b, a)
	})
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	if result, err := fn(2, "ab", "ignored"); err != nil || result != "abab" {
		t.Fatalf("expected abab, got %v (%v)", result, err)
	}
	if result, err := fn(3); err != nil || result != "" {
		t.Fatalf("expected empty string for missing argument, got %q (%v)", result, err)
	}
}

func TestAdaptVariadic(t *testing.T) {
	fn, err := Adapt(func(sep string, parts ...string) string {
		return strings.Join(parts, sep)
	})
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	result, err := fn("-", "a", "b", "c")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != "a-b-c" {
		t.Fatalf("expected a-b-c, got %v", result)
	}
}

func TestAdaptConvertsNumbers(t *testing.T) {
	fn, err := Adapt(func(n int64) float64 { return float64(n) / 2 })
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	result, err := fn(3.0)
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if result != 1.5 {
		t.Fatalf("expected 1.5, got %v", result)
	}
}

func TestAdaptReportsArgumentMismatch(t *testing.T) {
	fn, err := Adapt(func(n int) int { return n })
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	_, err = fn("three")
	if !errors.Is(err, ErrArgumentMismatch) {
		t.Fatalf("expected ErrArgumentMismatch, got %v", err)
	}
	var argErr *ArgumentError
	if !errors.As(err, &argErr) {
		t.Fatalf("expected *ArgumentError, got %T", err)
	}
	if argErr.Index != 0 || argErr.Want != reflect.TypeOf(0) {
		t.Fatalf("unexpected argument error: %+v", argErr)
	}
}

func TestAdaptRejectsLossyNumbers(t *testing.T) {
	toInt, err := Adapt(func(n int) int { return n })
	if err != nil {
		t.Fatalf("adapt int: %v", err)
	}
	toInt8, err := Adapt(func(n int8) int8 { return n })
	if err != nil {
		t.Fatalf("adapt int8: %v", err)
	}
	toUint, err := Adapt(func(n uint) uint { return n })
	if err != nil {
		t.Fatalf("adapt uint: %v", err)
	}
	toFloat32, err := Adapt(func(f float32) float32 { return f })
	if err != nil {
		t.Fatalf("adapt float32: %v", err)
	}

	cases := map[string]struct {
		fn  Func
		arg any
	}{
		"fraction to int":     {toInt, 2.9},
		"NaN to int":          {toInt, math.NaN()},
		"int overflows int8":  {toInt8, 300},
		"uint overflows int8": {toInt8, uint(200)},
		"negative to uint":    {toUint, -1},
		"float overflows f32": {toFloat32, math.MaxFloat64},
	}
	for name, tc := range cases {
		result, err := tc.fn(tc.arg)
		if !errors.Is(err, ErrArgumentMismatch) {
			t.Fatalf("%s: expected ErrArgumentMismatch, got %v (result %v)", name, err, result)
		}
		var argErr *ArgumentError
		if !errors.As(err, &argErr) || argErr.Index != 0 {
			t.Fatalf("%s: expected *ArgumentError for the first argument, got %v", name, err)
		}
	}

	if result, err := toInt8(int64(-128)); err != nil || result != int8(-128) {
		t.Fatalf("expected in-range value to convert, got %v (%v)", result, err)
	}
	if result, err := toInt(4.0); err != nil || result != 4 {
		t.Fatalf("expected whole float to convert, got %v (%v)", result, err)
	}
}

func TestAsRejectsLossyResult(t *testing.T) {
	typed, err := As[func() int8](func(...any) (any, error) { return 1000, nil })
	if err != nil {
		t.Fatalf("as: %v", err)
	}

	defer func() {
		argErr, ok := recover().(*ArgumentError)
		if !ok || argErr.Value != 1000 {
			t.Fatalf("expected panic with *ArgumentError, got %v", argErr)
		}
	}()
	typed()
}

func TestAdaptResults(t *testing.T) {
	boom := errors.New("boom")

	multi, err := Adapt(func() (int, string, error) { return 1, "one", nil })
	if err != nil {
		t.Fatalf("adapt multi: %v", err)
	}
	result, err := multi()
	if err != nil {
		t.Fatalf("call multi: %v", err)
	}
	if !reflect.DeepEqual(result, []any{1, "one"}) {
		t.Fatalf("expected packed results, got %v", result)
	}

	failing, err := Adapt(func() (string, error) { return "partial", boom })
	if err != nil {
		t.Fatalf("adapt failing: %v", err)
	}
	result, err = failing()
	if err != boom || result != "partial" {
		t.Fatalf("expected partial result and boom, got %v (%v)", result, err)
	}
}

func TestAdaptRejectsNonFunctions(t *testing.T) {
	var nilFunc func()
	for _, v := range []any{nil, 1, "fn", nilFunc, Func(nil)} {
		if _, err := Adapt(v); !errors.Is(err, ErrNotCallable) {
			t.Fatalf("%T: expected ErrNotCallable, got %v", v, err)
		}
	}
}

func TestAroundFuncRequiresInvocation(t *testing.T) {
	fn, err := Adapt(AroundFunc(func(inv *Invocation) (any, error) { return inv.Name, nil }))
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}
	if _, err := fn("not an invocation"); !errors.Is(err, ErrArgumentMismatch) {
		t.Fatalf("expected ErrArgumentMismatch, got %v", err)
	}
}

func TestAsRoundTrip(t *testing.T) {
	fn, err := Adapt(func(a, b int) int { return a + b })
	if err != nil {
		t.Fatalf("adapt: %v", err)
	}

	add, err := As[func(int, int) (int, error)](fn)
	if err != nil {
		t.Fatalf("as: %v", err)
	}
	sum, err := add(2, 3)
	if err != nil || sum != 5 {
		t.Fatalf("expected 5, got %d (%v)", sum, err)
	}

	join, err := As[func(...string) int](func(args ...any) (any, error) { return len(args), nil })
	if err != nil {
		t.Fatalf("as variadic: %v", err)
	}
	if n := join("a", "b", "c"); n != 3 {
		t.Fatalf("expected 3 arguments, got %d", n)
	}
}

func TestAsPanicsWithoutErrorResult(t *testing.T) {
	boom := errors.New("boom")
	typed, err := As[func()](func(...any) (any, error) { return nil, boom })
	if err != nil {
		t.Fatalf("as: %v", err)
	}

	defer func() {
		if recovered := recover(); recovered != boom {
			t.Fatalf("expected panic with boom, got %v", recovered)
		}
	}()
	typed()
}

func TestAsRejectsNonFunctionTypes(t *testing.T) {
	if _, err := As[int](func(...any) (any, error) { return nil, nil }); !errors.Is(err, ErrNotCallable) {
		t.Fatalf("expected ErrNotCallable, got %v", err)
	}
}
