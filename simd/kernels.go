package simd

import "math"

// Width-blocked kernels. Each widened variant walks full lane blocks through
// re-sliced windows (full-slice expressions keep the bounds checks hoisted)
// and hands the tail that doesn't fill a block to the scalar kernel, so any
// input length is handled.

// --- apply velocity: pos[i] += vel[i] * dt ---

func applyVelocityScalar(pos, vel []float32, dt float32) {
	for i := range pos {
		pos[i] += vel[i] * dt
	}
}

func applyVelocity4(pos, vel []float32, dt float32) {
	n := len(pos) &^ 3
	for i := 0; i < n; i += 4 {
		p := pos[i : i+4 : i+4]
		v := vel[i : i+4 : i+4]
		p[0] += v[0] * dt
		p[1] += v[1] * dt
		p[2] += v[2] * dt
		p[3] += v[3] * dt
	}
	applyVelocityScalar(pos[n:], vel[n:], dt)
}

func applyVelocity8(pos, vel []float32, dt float32) {
	n := len(pos) &^ 7
	for i := 0; i < n; i += 8 {
		p := pos[i : i+8 : i+8]
		v := vel[i : i+8 : i+8]
		p[0] += v[0] * dt
		p[1] += v[1] * dt
		p[2] += v[2] * dt
		p[3] += v[3] * dt
		p[4] += v[4] * dt
		p[5] += v[5] * dt
		p[6] += v[6] * dt
		p[7] += v[7] * dt
	}
	applyVelocityScalar(pos[n:], vel[n:], dt)
}

func applyVelocity16(pos, vel []float32, dt float32) {
	n := len(pos) &^ 15
	for i := 0; i < n; i += 16 {
		p := pos[i : i+16 : i+16]
		v := vel[i : i+16 : i+16]
		for j := 0; j < 16; j++ {
			p[j] += v[j] * dt
		}
	}
	applyVelocityScalar(pos[n:], vel[n:], dt)
}

// --- scale: dst[i] = src[i] * s ---

func scaleScalar(dst, src []float32, s float32) {
	for i := range src {
		dst[i] = src[i] * s
	}
}

func scale4(dst, src []float32, s float32) {
	n := len(src) &^ 3
	for i := 0; i < n; i += 4 {
		d := dst[i : i+4 : i+4]
		v := src[i : i+4 : i+4]
		d[0] = v[0] * s
		d[1] = v[1] * s
		d[2] = v[2] * s
		d[3] = v[3] * s
	}
	scaleScalar(dst[n:], src[n:], s)
}

func scale8(dst, src []float32, s float32) {
	n := len(src) &^ 7
	for i := 0; i < n; i += 8 {
		d := dst[i : i+8 : i+8]
		v := src[i : i+8 : i+8]
		d[0] = v[0] * s
		d[1] = v[1] * s
		d[2] = v[2] * s
		d[3] = v[3] * s
		d[4] = v[4] * s
		d[5] = v[5] * s
		d[6] = v[6] * s
		d[7] = v[7] * s
	}
	scaleScalar(dst[n:], src[n:], s)
}

func scale16(dst, src []float32, s float32) {
	n := len(src) &^ 15
	for i := 0; i < n; i += 16 {
		d := dst[i : i+16 : i+16]
		v := src[i : i+16 : i+16]
		for j := 0; j < 16; j++ {
			d[j] = v[j] * s
		}
	}
	scaleScalar(dst[n:], src[n:], s)
}

// --- add scaled: dst[i] = a[i] + b[i] * s ---

func addScaledScalar(dst, a, b []float32, s float32) {
	for i := range dst {
		dst[i] = a[i] + b[i]*s
	}
}

func addScaled4(dst, a, b []float32, s float32) {
	n := len(dst) &^ 3
	for i := 0; i < n; i += 4 {
		d := dst[i : i+4 : i+4]
		x := a[i : i+4 : i+4]
		y := b[i : i+4 : i+4]
		d[0] = x[0] + y[0]*s
		d[1] = x[1] + y[1]*s
		d[2] = x[2] + y[2]*s
		d[3] = x[3] + y[3]*s
	}
	addScaledScalar(dst[n:], a[n:], b[n:], s)
}

func addScaled8(dst, a, b []float32, s float32) {
	n := len(dst) &^ 7
	for i := 0; i < n; i += 8 {
		d := dst[i : i+8 : i+8]
		x := a[i : i+8 : i+8]
		y := b[i : i+8 : i+8]
		d[0] = x[0] + y[0]*s
		d[1] = x[1] + y[1]*s
		d[2] = x[2] + y[2]*s
		d[3] = x[3] + y[3]*s
		d[4] = x[4] + y[4]*s
		d[5] = x[5] + y[5]*s
		d[6] = x[6] + y[6]*s
		d[7] = x[7] + y[7]*s
	}
	addScaledScalar(dst[n:], a[n:], b[n:], s)
}

func addScaled16(dst, a, b []float32, s float32) {
	n := len(dst) &^ 15
	for i := 0; i < n; i += 16 {
		d := dst[i : i+16 : i+16]
		x := a[i : i+16 : i+16]
		y := b[i : i+16 : i+16]
		for j := 0; j < 16; j++ {
			d[j] = x[j] + y[j]*s
		}
	}
	addScaledScalar(dst[n:], a[n:], b[n:], s)
}

// --- batch sine: dst[i] = sin(src[i]) ---

func sineScalar(dst, src []float32) {
	for i := range src {
		dst[i] = float32(math.Sin(float64(src[i])))
	}
}

func sine4(dst, src []float32) {
	n := len(src) &^ 3
	for i := 0; i < n; i += 4 {
		d := dst[i : i+4 : i+4]
		v := src[i : i+4 : i+4]
		d[0] = float32(math.Sin(float64(v[0])))
		d[1] = float32(math.Sin(float64(v[1])))
		d[2] = float32(math.Sin(float64(v[2])))
		d[3] = float32(math.Sin(float64(v[3])))
	}
	sineScalar(dst[n:], src[n:])
}

func sine8(dst, src []float32) {
	n := len(src) &^ 7
	for i := 0; i < n; i += 8 {
		d := dst[i : i+8 : i+8]
		v := src[i : i+8 : i+8]
		for j := 0; j < 8; j++ {
			d[j] = float32(math.Sin(float64(v[j])))
		}
	}
	sineScalar(dst[n:], src[n:])
}

func sine16(dst, src []float32) {
	n := len(src) &^ 15
	for i := 0; i < n; i += 16 {
		d := dst[i : i+16 : i+16]
		v := src[i : i+16 : i+16]
		for j := 0; j < 16; j++ {
			d[j] = float32(math.Sin(float64(v[j])))
		}
	}
	sineScalar(dst[n:], src[n:])
}
