package server

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"

	logcontext "github.com/skyquery/skyquery/context"
	"github.com/skyquery/skyquery/core"
	"github.com/skyquery/skyquery/log"
	"github.com/skyquery/skyquery/tools"
)

// stdioRequest is one line-delimited JSON frame on stdin.
type stdioRequest struct {
	Tool string                 `json:"tool"`
	Args map[string]interface{} `json:"args"`
}

// Stdio serves the registry over line-delimited JSON on stdin/stdout.
// All logging goes to stderr so stdout carries only protocol frames.
type Stdio struct {
	registry *tools.Registry
	in       io.Reader
	out      io.Writer
}

// NewStdio builds the stdio transport on os.Stdin and os.Stdout.
func NewStdio(registry *tools.Registry) *Stdio {
	return &Stdio{registry: registry, in: os.Stdin, out: os.Stdout}
}

// Run reads one request per line until stdin closes or ctx is
// cancelled. Every frame gets a response frame, errors included.
func (s *Stdio) Run(ctx context.Context) error {
	log.SetOutput(os.Stderr)

	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req stdioRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.respond(encoder, toolResponse{
				Error: &toolError{Kind: core.KindInvalidQuery.String(), Message: "malformed request frame: " + err.Error()},
			})
			continue
		}

		reqCtx := logcontext.WithRequestID(ctx, logcontext.NewRequestID())
		if !s.registry.Has(req.Tool) {
			s.respond(encoder, toolResponse{
				Error: &toolError{Kind: "not_found", Message: "tool not found: " + req.Tool},
			})
			continue
		}

		log.Infof(reqCtx, "executing tool %s", req.Tool)
		result, err := s.registry.Execute(reqCtx, req.Tool, req.Args)
		if err != nil {
			log.Errorf(reqCtx, "tool %s failed: %v", req.Tool, err)
			s.respond(encoder, toolResponse{
				Error: &toolError{Kind: core.KindOf(err).String(), Message: err.Error()},
			})
			continue
		}
		s.respond(encoder, toolResponse{Result: result})
	}
	return scanner.Err()
}

func (s *Stdio) respond(encoder *json.Encoder, resp toolResponse) {
	if err := encoder.Encode(resp); err != nil {
		log.Errorf(context.Background(), "failed to write response frame: %v", err)
	}
}
