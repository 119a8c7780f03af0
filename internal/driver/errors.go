package driver

import "fmt"

// ConfigError reports an invalid driver or rule configuration. It is
// always raised before any evaluator call is made.
type ConfigError struct {
	Field  string
	Reason string
	Detail any
}

func (e *ConfigError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("config error: %s %s (%v)", e.Field, e.Reason, e.Detail)
	}
	return "config error: " + e.Field + " " + e.Reason
}

// Is lets errors.Is match any ConfigError regardless of field.
func (e *ConfigError) Is(target error) bool {
	_, ok := target.(*ConfigError)
	return ok
}
