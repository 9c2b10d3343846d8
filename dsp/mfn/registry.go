package mfn

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-vecmath/cpu"
)

// Kernel names accepted by WithKernel.
const (
	KernelPortable = "portable"
	KernelVector   = "vector"
)

// ErrUnknownKernel is returned for a kernel name that is not registered.
var ErrUnknownKernel = errors.New("mfn: unknown kernel")

type kernelEntry struct {
	name      string
	supported func(cpu.Features) bool
	build     func(*network) Kernel
}

// kernels is ordered by preference.
var kernels = []kernelEntry{
	{
		name: KernelVector,
		supported: func(f cpu.Features) bool {
			return cpu.Supports(f, cpu.SIMDSSE2) || cpu.Supports(f, cpu.SIMDNEON)
		},
		build: func(n *network) Kernel { return &vectorKernel{net: n} },
	},
	{
		name:      KernelPortable,
		supported: func(cpu.Features) bool { return true },
		build:     func(n *network) Kernel { return &portableKernel{net: n} },
	},
}

// Kernels returns the registered kernel names in preference order.
func Kernels() []string {
	names := make([]string, len(kernels))
	for i, k := range kernels {
		names[i] = k.name
	}
	return names
}

// lookupKernel returns the named entry, or the preferred entry supported by
// the detected CPU features when name is empty.
func lookupKernel(name string) (kernelEntry, error) {
	if name == "" {
		features := cpu.DetectFeatures()
		for _, k := range kernels {
			if k.supported(features) {
				return k, nil
			}
		}
	}
	for _, k := range kernels {
		if k.name == name {
			return k, nil
		}
	}
	return kernelEntry{}, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
}
