package schema

// Schema is a map of parameter names to their expected types.
// Example: {"url": String(), "method": String(), "conditions": Map()}
type Schema map[string]Type

// Validate checks if data conforms to the schema. Every schema key is
// required. All failures are collected and returned together.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation.
		return nil
	}

	var errs []error

	for name, typ := range schema {
		value, exists := data[name]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: "required",
				Value:  nil,
			})
			continue
		}
		if err := typ.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    name,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Missing returns the schema keys absent from data, in unspecified order.
// It is cheaper than Validate when only presence matters.
func Missing(schema Schema, data map[string]any) []string {
	var out []string
	for name := range schema {
		if _, ok := data[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
