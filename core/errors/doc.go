// Package errors defines the error taxonomy of the reconciler.
//
// Every failure a run can surface falls into one of three kinds, each with a
// sentinel for errors.Is and a typed error carrying the details:
//
//   - ErrInputFormat / InputFormatError: a required column is missing, a cell is
//     unparsable or out of range. Raised by the loader before any mutation.
//   - ErrSchemaMismatch / SchemaMismatchError: an item key appears twice in one input.
//   - ErrIO / IOError: reading or writing a location failed.
//
// # Usage
//
//	if errors.Is(err, errors.ErrSchemaMismatch) {
//	    var sm *errors.SchemaMismatchError
//	    errors.As(err, &sm)
//	    fmt.Println(sm.Key)
//	}
package errors
