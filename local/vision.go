package local

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
)

// VisionModel is a quantized image+text model that answers with text.
type VisionModel struct {
	modelPath    string
	runner       string
	device       DeviceInfo
	maxNewTokens int
	run          commandRunner
}

// LoadVisionModel checks the weights and the runner are in place.
func LoadVisionModel(modelPath, runner string, device DeviceInfo, maxNewTokens int) (*VisionModel, error) {
	bin, err := checkModel(modelPath, runner)
	if err != nil {
		return nil, errors.Wrap(err, "loading vision model")
	}
	if maxNewTokens <= 0 {
		return nil, errors.Errorf("max new tokens must be positive, got %d", maxNewTokens)
	}
	return &VisionModel{
		modelPath:    modelPath,
		runner:       bin,
		device:       device,
		maxNewTokens: maxNewTokens,
		run:          execCommand,
	}, nil
}

// Generate encodes the image and prompt and decodes the generated text.
func (v *VisionModel) Generate(ctx context.Context, imagePath, prompt string) (string, error) {
	text, err := infer(ctx, v.run, v.runner,
		"--model", v.modelPath,
		"--device", v.device.Device,
		"--dtype", v.device.Dtype(),
		"--device-map", "auto",
		"--image", imagePath,
		"--prompt", prompt,
		"--max-new-tokens", strconv.Itoa(v.maxNewTokens),
		"--skip-special-tokens",
	)
	if err != nil {
		return "", errors.Wrap(err, "generating")
	}
	return text, nil
}
