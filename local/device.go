package local

import (
	"context"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
)

const (
	DeviceCUDA = "cuda"
	DeviceMPS  = "mps"
	DeviceCPU  = "cpu"
)

var cudaVersion = regexp.MustCompile(`CUDA Version:\s*([0-9.]+)`)

type DeviceInfo struct {
	Device      string
	GPUName     string
	CUDAVersion string
	// total memory of the first GPU in GB
	MemoryGB float64
}

func (d DeviceInfo) HasGPU() bool {
	return d.Device == DeviceCUDA
}

// Dtype is the precision the models are loaded with on this device.
func (d DeviceInfo) Dtype() string {
	if d.HasGPU() {
		return "float16"
	}
	return "float32"
}

func DetectDevice(ctx context.Context) DeviceInfo {
	return detectDevice(ctx, execCommand, runtime.GOOS, runtime.GOARCH)
}

// detectDevice prefers an NVIDIA GPU, then Apple silicon, then the CPU.
func detectDevice(ctx context.Context, run commandRunner, goos, goarch string) DeviceInfo {
	if _, err := lookPath("nvidia-smi"); err == nil {
		out, err := run(ctx, "nvidia-smi", "--query-gpu=name,memory.total", "--format=csv,noheader,nounits")
		if err == nil {
			if info, ok := parseGPU(string(out)); ok {
				if banner, err := run(ctx, "nvidia-smi"); err == nil {
					if m := cudaVersion.FindStringSubmatch(string(banner)); m != nil {
						info.CUDAVersion = m[1]
					}
				}
				return info
			}
		}
	}
	if goos == "darwin" && goarch == "arm64" {
		return DeviceInfo{Device: DeviceMPS}
	}
	return DeviceInfo{Device: DeviceCPU}
}

// parseGPU reads the first line of "name, memory MiB".
func parseGPU(out string) (DeviceInfo, bool) {
	line := strings.TrimSpace(strings.SplitN(strings.TrimSpace(out), "\n", 2)[0])
	name, mem, found := strings.Cut(line, ",")
	if !found || strings.TrimSpace(name) == "" {
		return DeviceInfo{}, false
	}
	info := DeviceInfo{Device: DeviceCUDA, GPUName: strings.TrimSpace(name)}
	if mib, err := strconv.ParseFloat(strings.TrimSpace(mem), 64); err == nil {
		info.MemoryGB = mib * 1024 * 1024 / 1e9
	}
	return info, true
}

func (d DeviceInfo) String() string {
	if !d.HasGPU() {
		return d.Device
	}
	return fmt.Sprintf("%s (%s, %.2f GB)", d.Device, d.GPUName, d.MemoryGB)
}
