// Package status registers the server_status health tool.
package status

import (
	"context"

	"github.com/firebase/genkit/go/genkit"

	"github.com/skyquery/skyquery/tools"
)

// Output is the server_status tool result.
type Output struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Register wires the server_status tool into the registry.
func Register(gk *genkit.Genkit, registry *tools.Registry) {
	tools.Define[struct{}, *Output](gk, registry,
		"server_status",
		"Reports whether the flight search server is running.",
		func(ctx context.Context, _ struct{}) (*Output, error) {
			return &Output{
				Status:  "online",
				Message: "Flight search server is running and ready to handle requests.",
			}, nil
		},
		func(map[string]interface{}) (struct{}, error) {
			return struct{}{}, nil
		})
}
