package local

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// EditOptions are the sampling settings of one pipeline call.
type EditOptions struct {
	Prompt         string
	NegativePrompt string
	Seed           int64
	TrueCFGScale   float64
	Steps          int
}

// DefaultEditOptions matches the smoke test: fixed seed, 20 steps.
func DefaultEditOptions(prompt string) EditOptions {
	return EditOptions{
		Prompt:         prompt,
		NegativePrompt: " ",
		Seed:           0,
		TrueCFGScale:   4.0,
		Steps:          20,
	}
}

// Pipeline is a diffusion image-edit pipeline loaded in bfloat16.
type Pipeline struct {
	modelPath  string
	runner     string
	device     DeviceInfo
	cpuOffload bool
	run        commandRunner
}

func LoadPipeline(modelPath, runner string, device DeviceInfo) (*Pipeline, error) {
	bin, err := checkModel(modelPath, runner)
	if err != nil {
		return nil, errors.Wrap(err, "loading pipeline")
	}
	return &Pipeline{
		modelPath: modelPath,
		runner:    bin,
		device:    device,
		run:       execCommand,
	}, nil
}

// EnableCPUOffload keeps idle layers in host memory so the model fits small GPUs.
func (p *Pipeline) EnableCPUOffload() {
	p.cpuOffload = true
}

// Edit runs one inference over inputPath and checks outputPath decodes.
func (p *Pipeline) Edit(ctx context.Context, inputPath, outputPath string, opts EditOptions) error {
	if opts.Steps <= 0 {
		return errors.Errorf("inference steps must be positive, got %d", opts.Steps)
	}
	args := []string{
		"--model", p.modelPath,
		"--device", p.device.Device,
		"--dtype", "bfloat16",
		"--image", inputPath,
		"--output", outputPath,
		"--prompt", opts.Prompt,
		"--negative-prompt", opts.NegativePrompt,
		"--seed", strconv.FormatInt(opts.Seed, 10),
		"--true-cfg-scale", strconv.FormatFloat(opts.TrueCFGScale, 'f', -1, 64),
		"--steps", strconv.Itoa(opts.Steps),
	}
	if p.cpuOffload {
		args = append(args, "--cpu-offload")
	}
	if _, err := infer(ctx, p.run, p.runner, args...); err != nil {
		return errors.Wrap(err, "running inference")
	}
	if _, err := VerifyImage(outputPath); err != nil {
		return err
	}
	return nil
}
