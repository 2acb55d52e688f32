// Package validator provides small composable rules for validating loosely
// typed input, such as administrator-submitted client definitions decoded
// from JSON into map[string]any.
//
// Each rule pairs a Check function with the ValidationError reported when the
// check fails. Apply evaluates every rule and aggregates all failures into a
// single ValidationErrors value, so callers learn about every violated field
// at once instead of one error per round trip.
//
// # Usage
//
//	err := validator.Apply(
//		validator.IsString("name", attrs["name"]),
//		validator.IsObject("config", attrs["config"]),
//		validator.HasKeys("contact", contact, "owner"),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		for _, field := range verrs.Fields() {
//			// report field
//		}
//	}
//
// Rules are plain values with no shared state, so the package is safe for
// concurrent use.
package validator
