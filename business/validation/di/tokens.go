// Package di contains dependency injection tokens for the validation context.
package di

import (
	"github.com/DappGoose-Labs/arbagent/business/validation/app"
	"github.com/DappGoose-Labs/arbagent/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Pipeline = di.NewToken[*app.Pipeline]("validation.Pipeline")
)

// Private service tokens - internal to validation module
var (
	Validator = di.NewToken[*app.Validator]("validation:validator")
)

// Helper functions for type-safe access
func GetPipeline(c di.ServiceRegistry) *app.Pipeline {
	return di.GetToken(c, Pipeline)
}

func GetValidator(c di.ServiceRegistry) *app.Validator {
	return di.GetToken(c, Validator)
}
