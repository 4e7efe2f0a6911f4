package kanon

// Package kanon provides:
//
// - Immutable, composable schemas for decoded-JSON style Go values (Node, Kind, Schema)
// - Chainable constraints and coercions (String().Email().Min(5), CoerceNumber().Min(0))
// - Object projections (Pick, Omit, Partial, Extend) and unknown-key policies
// - Parse/SafeParse front-ends, JSON and async variants
// - Compile, a closure compiler that yields the same results as the interpreter
// - JSONSchema export
//
// Design policy:
// - Failures are data: validators return Result, only Parse* return errors.
// - Validation is fail-fast; the first failing key, index or refinement wins.
// - A successful validation that coerced nothing allocates nothing and the
//   input value is the output.
// - Schema definitions loaded from files live in schemadef/, the CLI in cmd/kanon.
//
// Typical usage:
//
//  user := kanon.Object(
//      kanon.Field("name", kanon.String()),
//      kanon.Field("age", kanon.CoerceNumber().Min(0)),
//      kanon.Field("active", kanon.Boolean()),
//  )
//  res := kanon.SafeParse(user, map[string]any{"name": "Ann", "age": "30", "active": true})
//  // res.Data == map[string]any{"name": "Ann", "age": 30.0, "active": true}
//
//  fast := kanon.Compile(user)
//  v, err := kanon.Parse(fast, input)
//
