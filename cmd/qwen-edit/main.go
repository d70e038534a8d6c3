// Command qwen-edit runs the local 4-bit Qwen image edit model over one image.
//
//	qwen-edit [-conf config.yml] <input_image_path> <output_image_path> <prompt>
package main

import (
	"Vixtral/core"
	"Vixtral/local"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		// pkg/errors values print their stack with %+v
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, out, errOut io.Writer, args []string) error {
	fs := flag.NewFlagSet("qwen-edit", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("conf", "config.yml", "path to config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 3 {
		return errors.New("usage: qwen-edit <input_image_path> <output_image_path> <prompt>")
	}
	inputPath, outputPath, prompt := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	conf, err := core.Load(*configPath)
	if err != nil {
		return err
	}
	log := core.SetupLogger(conf.Env, errOut)

	fmt.Fprintf(out, "Loading image: %s\n", inputPath)
	fmt.Fprintf(out, "Prompt: %s\n", prompt)

	device := local.DetectDevice(ctx)
	fmt.Fprintf(out, "Using device: %s\n", device.Device)
	log.With(slog.String("device", device.String())).Debug("device detected")

	fmt.Fprintf(out, "Loading Qwen Image Edit 2509 4bit model from %s...\n", conf.Local.ModelPath)
	model, err := local.LoadVisionModel(conf.Local.ModelPath, conf.Local.VisionRunner, device, conf.Local.MaxNewTokens)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "Model loaded successfully")

	fmt.Fprintln(out, "Loading input image...")
	image, err := local.OpenRGB(inputPath)
	if err != nil {
		return err
	}
	size := image.Bounds().Size()
	fmt.Fprintf(out, "Image size: (%d, %d)\n", size.X, size.Y)

	fmt.Fprintln(out, "Preparing inputs...")
	fmt.Fprintln(out, "Generating edited image...")
	text, err := model.Generate(ctx, inputPath, prompt)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Model output: %s\n", text)

	// the model answers in text, the image itself is written back unchanged
	if err := local.SaveImage(image, outputPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved edited image to: %s\n", outputPath)

	fmt.Fprintln(out, "Success!")
	return nil
}
