package aspect_test

import (
	"fmt"

	"github.com/bpradana/aspect"
)

func ExampleBefore() {
	advised := aspect.Object{"left": 32}
	advised["add"] = func(n int) {
		advised["left"] = advised["left"].(int) + n
	}
	adviser := aspect.Object{"override": func(n int) {
		advised["left"] = n
	}}

	if _, err := aspect.Before(aspect.Method(advised, "add")).Attach(aspect.Method(adviser, "override")); err != nil {
		panic(err)
	}
	if _, err := advised.Call("add", 2); err != nil {
		panic(err)
	}

	fmt.Println(advised["left"])
	// Output: 4
}

func ExampleAround() {
	greet := func(name string) string {
		return "Hello, " + name + "!"
	}

	wrapped, err := aspect.Around(greet).Attach(func(inv *aspect.Invocation) (any, error) {
		if inv.Args[0] == "" {
			return "Hello, stranger!", nil
		}
		return inv.Proceed()
	})
	if err != nil {
		panic(err)
	}

	typed, err := aspect.As[func(string) string](wrapped)
	if err != nil {
		panic(err)
	}
	fmt.Println(typed("Ada"))
	fmt.Println(typed(""))
	// Output:
	// Hello, Ada!
	// Hello, stranger!
}

func ExampleAfter() {
	wrapped, err := aspect.After(func(a, b int) int { return a + b }).Attach(func(sum int) string {
		return fmt.Sprintf("sum=%d", sum)
	})
	if err != nil {
		panic(err)
	}

	result, err := wrapped(2, 3)
	if err != nil {
		panic(err)
	}
	fmt.Println(result)
	// Output: sum=5
}
