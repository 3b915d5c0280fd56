package tools_test

import (
	"context"
	"testing"

	"github.com/firebase/genkit/go/genkit"
	"github.com/skyquery/skyquery/tools"
	"github.com/stretchr/testify/assert"
)

type echoInput struct {
	Message string `json:"message"`
}

func TestNewRegistry(t *testing.T) {
	reg := tools.NewRegistry()
	assert.NotNil(t, reg)
	assert.Empty(t, reg.Tools())
}

func TestRegistry_DefineAndExecute(t *testing.T) {
	ctx := context.Background()
	gk := genkit.Init(ctx)
	reg := tools.NewRegistry()

	tools.Define[*echoInput, string](gk, reg, "echo_tool", "Echoes the message back.",
		func(ctx context.Context, input *echoInput) (string, error) {
			return input.Message, nil
		},
		func(args map[string]interface{}) (*echoInput, error) {
			msg, _ := args["message"].(string)
			return &echoInput{Message: msg}, nil
		})

	assert.Equal(t, []string{"echo_tool"}, reg.Names())

	out, err := reg.Execute(ctx, "echo_tool", map[string]interface{}{"message": "hello"})
	assert.NoError(t, err)
	assert.Equal(t, "hello", out)
}

func TestRegistry_ExecuteUnknownTool(t *testing.T) {
	reg := tools.NewRegistry()
	_, err := reg.Execute(context.Background(), "missing", nil)
	assert.Error(t, err)
}
