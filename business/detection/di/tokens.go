// Package di contains dependency injection tokens for the detection context.
package di

import (
	"github.com/DappGoose-Labs/arbagent/business/detection/app"
	"github.com/DappGoose-Labs/arbagent/internal/di"
)

// Public service tokens - exposed to other modules
var (
	DetectionService = di.NewToken[*app.DetectionService]("detection.DetectionService")
)

// Helper functions for type-safe access
func GetDetectionService(c di.ServiceRegistry) *app.DetectionService {
	return di.GetToken(c, DetectionService)
}
