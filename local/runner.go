// Package local drives image models installed on this machine. The models
// run in a separate runner executable; this package builds its command line,
// serializes access to the accelerator and checks what comes back.
package local

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// one model in memory at a time, commodity GPUs can't hold two
var mutex sync.Mutex

type commandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

var lookPath = exec.LookPath

func execCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrapf(err, "running %s", name)
	}
	return out.Bytes(), nil
}

// infer runs one exclusive inference and returns its cleaned stdout.
func infer(ctx context.Context, run commandRunner, name string, args ...string) (string, error) {
	mutex.Lock()
	defer mutex.Unlock()

	out, err := run(ctx, name, args...)
	if err != nil {
		return "", err
	}
	return removeGarbage(string(out)), nil
}

// removeGarbage drops the loader banner the runners print before the answer.
func removeGarbage(result string) string {
	const anchor = "<|output|>"
	if i := strings.LastIndex(result, anchor); i != -1 {
		result = result[i+len(anchor):]
	}
	return strings.TrimSpace(result)
}

func checkModel(modelPath, runner string) (string, error) {
	info, err := os.Stat(modelPath)
	if err != nil {
		return "", errors.Wrapf(err, "model path %s", modelPath)
	}
	if !info.IsDir() {
		return "", errors.Errorf("model path %s is not a directory", modelPath)
	}
	bin, err := lookPath(runner)
	if err != nil {
		return "", errors.Wrapf(err, "runner %s", runner)
	}
	return bin, nil
}
