// Package errors provides coded, structured diagnostics for reactor.
//
// Every misuse the engine reports (wrapping a non-object, writing a read-only
// computed, a computed reading itself) and every configuration problem the
// CLI detects carries a stable code that maps to:
//   - A short message describing the problem
//   - A detailed explanation
//   - A documentation URL
//
// # Error Codes
//
//   - R001-R099: runtime misuse reported by pkg/reactive
//   - C001-C099: configuration errors reported by internal/config
//   - X001-X099: CLI errors
//
// # Usage
//
//	err := errors.New("R002").
//	    WithDetail(`computed "total" has no setter`).
//	    WithSuggestion("Use reactive.NewWritableComputed to supply a setter")
//
//	fmt.Println(err.Format())
//	// Output:
//	// ERROR R002: Write to read-only computed
//	//
//	//   computed "total" has no setter
//	//
//	//   Hint: Use reactive.NewWritableComputed to supply a setter
//	//
//	//   Learn more: https://reactor.vango.dev/errors/R002
package errors
