// Package validation validates definition records, configuration and
// request parameters.
//
// Struct tag validation uses go-playground/validator and reports field
// names by their yaml tag, so messages point at the key a user wrote:
//
//	type taskRecord struct {
//	    ID string `yaml:"task_id" validate:"required"`
//	}
//	err := validation.Validate(rec) // "task_id: is required"
//
// Programmatic validation collects errors for values that do not come from
// a struct:
//
//	v := validation.New()
//	v.OneOf("orientation", q.Orientation, []string{"LR", "TB"})
//	if err := v.Validate(); err != nil { ... }
package validation
