// Command qwen-image-edit edits a remote image with DashScope and prints one
// JSON line: {"images": [...]} on success, an error object otherwise.
//
//	qwen-image-edit [-conf config.yml] <image_url> <prompt>
package main

import (
	"Vixtral/ai"
	"Vixtral/core"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
)

type imagesOutput struct {
	Images []string `json:"images"`
}

type errorOutput struct {
	Error string `json:"error"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, out, errOut io.Writer, args []string) int {
	fs := flag.NewFlagSet("qwen-image-edit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("conf", "config.yml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return emit(out, errorOutput{Error: err.Error()}, 1)
	}
	if fs.NArg() < 2 {
		return emit(out, errorOutput{Error: "Usage: qwen-image-edit <image_url> <prompt>"}, 1)
	}
	imageURL, prompt := fs.Arg(0), fs.Arg(1)

	conf, err := core.Load(*configPath)
	if err != nil {
		return emit(out, errorOutput{Error: err.Error()}, 1)
	}
	if conf.DashScope.ApiKey == "" {
		return emit(out, errorOutput{Error: "DASHSCOPE_API_KEY not set"}, 1)
	}
	log := core.SetupLogger(conf.Env, errOut)

	result, err := ai.NewDashScope(conf, log).Edit(ctx, imageURL, prompt)
	var apiErr *ai.APIError
	switch {
	case errors.As(err, &apiErr):
		return emit(out, apiErr, 1)
	case err != nil:
		return emit(out, errorOutput{Error: err.Error()}, 1)
	}
	return emit(out, imagesOutput{Images: result.Images}, 0)
}

func emit(out io.Writer, v any, code int) int {
	if err := json.NewEncoder(out).Encode(v); err != nil {
		return 1
	}
	return code
}
