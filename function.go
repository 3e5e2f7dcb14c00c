// Package bridge is the serverless entry point of the upload bridge.
package bridge

import (
	"context"

	"github.com/lumiforge/video-bridge/internal/cloudfunction"
)

// Handler is invoked by the function runtime with an API Gateway event.
func Handler(ctx context.Context, request []byte) ([]byte, error) {
	return cloudfunction.Handler(ctx, request)
}
