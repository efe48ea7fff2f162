package simd

import "sync"

// Op names one logical batch operation with its own dispatch slot.
type Op int

const (
	OpApplyVelocity Op = iota
	OpScale
	OpAddScaled
	OpSine
	opCount
)

func (o Op) String() string {
	switch o {
	case OpApplyVelocity:
		return "apply-velocity"
	case OpScale:
		return "scale"
	case OpAddScaled:
		return "add-scaled"
	case OpSine:
		return "sine"
	}
	return "unknown"
}

// Ops returns every dispatchable operation, for diagnostics enumeration.
func Ops() []Op {
	return []Op{OpApplyVelocity, OpScale, OpAddScaled, OpSine}
}

// optimalWidth is the empirically fastest tier per operation, not necessarily
// the widest the hardware offers. Sine is bound by the per-lane libm call, so
// widening buys nothing over scalar.
var optimalWidth = [opCount]Width{
	OpApplyVelocity: Width8,
	OpScale:         Width8,
	OpAddScaled:     Width8,
	OpSine:          WidthScalar,
}

// The stable call surface. Each function value is assigned once at package
// init after capability detection and reassigned only by SetActiveWidth
// (benchmark override); callers invoke them directly and never branch on
// hardware.
var (
	// ApplyVelocity computes pos[i] += vel[i] * dt.
	ApplyVelocity func(pos, vel []float32, dt float32)
	// Scale computes dst[i] = src[i] * s.
	Scale func(dst, src []float32, s float32)
	// AddScaled computes dst[i] = a[i] + b[i] * s.
	AddScaled func(dst, a, b []float32, s float32)
	// Sine computes dst[i] = sin(src[i]).
	Sine func(dst, src []float32)
)

var (
	dispatchMu sync.Mutex
	active     [opCount]Width
)

func init() {
	Reset()
}

// Reset reinstalls every operation at its best available width, undoing any
// SetActiveWidth overrides.
func Reset() {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	for op := Op(0); op < opCount; op++ {
		install(op, SelectBestAvailable(optimalWidth[op], MaxWidth()))
	}
}

// ActiveWidth returns the width currently installed for the operation.
func ActiveWidth(op Op) Width {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	return active[op]
}

// SetActiveWidth forces the operation onto the requested width, degrading to
// the next-narrower supported tier when the host lacks it. Never fails;
// returns the width actually installed. Intended for benchmarking overrides,
// not for concurrent use against running hot loops.
func SetActiveWidth(op Op, w Width) Width {
	dispatchMu.Lock()
	defer dispatchMu.Unlock()
	chosen := SelectBestAvailable(w, MaxWidth())
	install(op, chosen)
	return chosen
}

func install(op Op, w Width) {
	active[op] = w
	switch op {
	case OpApplyVelocity:
		switch w {
		case Width16:
			ApplyVelocity = applyVelocity16
		case Width8:
			ApplyVelocity = applyVelocity8
		case Width4:
			ApplyVelocity = applyVelocity4
		default:
			ApplyVelocity = applyVelocityScalar
		}
	case OpScale:
		switch w {
		case Width16:
			Scale = scale16
		case Width8:
			Scale = scale8
		case Width4:
			Scale = scale4
		default:
			Scale = scaleScalar
		}
	case OpAddScaled:
		switch w {
		case Width16:
			AddScaled = addScaled16
		case Width8:
			AddScaled = addScaled8
		case Width4:
			AddScaled = addScaled4
		default:
			AddScaled = addScaledScalar
		}
	case OpSine:
		switch w {
		case Width16:
			Sine = sine16
		case Width8:
			Sine = sine8
		case Width4:
			Sine = sine4
		default:
			Sine = sineScalar
		}
	}
}
