package validator

// Validator validates a struct and returns an error describing any failures.
type Validator interface {
	Validate(data any) error
}
