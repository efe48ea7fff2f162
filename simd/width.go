// Package simd routes batch math through the widest vector-instruction tier
// the host supports, behind a stable call surface: callers invoke the
// package-level operation funcs and never branch on hardware capability
// themselves. Hardware is probed once at startup; every widened kernel is
// numerically equivalent to its scalar counterpart and hands remainder
// elements to the scalar path.
package simd

import (
	"fmt"
	"runtime"
	"sync"

	"golang.org/x/sys/cpu"
)

// Width is the number of float32 lanes a kernel processes per step.
type Width int

const (
	WidthScalar Width = 1  // plain per-element loop, always available
	Width4      Width = 4  // 128-bit tier (SSE2 / NEON)
	Width8      Width = 8  // 256-bit tier (AVX2)
	Width16     Width = 16 // 512-bit tier (AVX-512)
)

func (w Width) String() string {
	switch w {
	case Width4:
		return "128-bit"
	case Width8:
		return "256-bit"
	case Width16:
		return "512-bit"
	default:
		return "scalar"
	}
}

// Bits returns the vector register width the tier corresponds to.
func (w Width) Bits() int {
	return int(w) * 32
}

type capability struct {
	max  Width
	name string
}

var (
	capOnce sync.Once
	hostCap capability
)

// detect probes the host once and caches the result.
func detect() capability {
	capOnce.Do(func() {
		hostCap = capability{max: WidthScalar, name: "none"}
		switch runtime.GOARCH {
		case "amd64":
			switch {
			case cpu.X86.HasAVX512F:
				hostCap = capability{max: Width16, name: "AVX-512F"}
			case cpu.X86.HasAVX2:
				hostCap = capability{max: Width8, name: "AVX2"}
			case cpu.X86.HasSSE2:
				hostCap = capability{max: Width4, name: "SSE2"}
			}
		case "arm64":
			if cpu.ARM64.HasASIMD {
				hostCap = capability{max: Width4, name: "NEON"}
			}
		}
	})
	return hostCap
}

// MaxWidth returns the widest tier the host supports.
func MaxWidth() Width {
	return detect().max
}

// Supported reports whether the host supports the given tier. Scalar is
// always supported.
func Supported(w Width) bool {
	return w == WidthScalar || w <= detect().max
}

// SelectBestAvailable returns optimal when the host supports it, otherwise
// cascades down one tier at a time (512 to 256 to 128 to scalar) until it
// reaches a supported width. Scalar terminates the cascade and is never
// unavailable.
func SelectBestAvailable(optimal, hardwareMax Width) Width {
	w := optimal
	for w > hardwareMax {
		switch w {
		case Width16:
			w = Width8
		case Width8:
			w = Width4
		default:
			w = WidthScalar
		}
	}
	if w < WidthScalar {
		w = WidthScalar
	}
	return w
}

// CapabilityString returns a one-line diagnostic describing the probed
// hardware tier.
func CapabilityString() string {
	c := detect()
	return fmt.Sprintf("%s/%s: %s (%s, %d bits, %d float32 lanes)",
		runtime.GOOS, runtime.GOARCH, c.name, c.max, c.max.Bits(), int(c.max))
}
