package mathutil

// Mat3 is a 3×3 homogeneous 2D transform stored row-major:
// [a, b, x, c, d, y, 0, 0, 1]. Value type for zero heap allocation.
type Mat3 [9]float64

func Mat3Identity() Mat3 {
	return Mat3{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Mat3Mul returns a × b.
func Mat3Mul(a, b Mat3) Mat3 {
	var m Mat3
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m[r*3+c] = a[r*3+0]*b[0*3+c] + a[r*3+1]*b[1*3+c] + a[r*3+2]*b[2*3+c]
		}
	}
	return m
}

// Affine builds a local bone transform: translate × rotate × scale.
// Rotation is in degrees, matching Spine setup-pose data.
func Affine(x, y, rotation, scaleX, scaleY float64) Mat3 {
	r := Rot2D(Deg2Rad(rotation))
	return Mat3{
		r[0] * scaleX, r[1] * scaleY, x,
		r[3] * scaleX, r[4] * scaleY, y,
		0, 0, 1,
	}
}

// MulPoint applies M to the point (x, y).
func (m Mat3) MulPoint(x, y float64) (float64, float64) {
	return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
}

// Translation returns the translation column.
func (m Mat3) Translation() (float64, float64) {
	return m[2], m[5]
}
