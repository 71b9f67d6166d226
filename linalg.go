package dva

import (
	"errors"
	"math"
)

// complexSolve solves h*x = f for a small dense complex128 system via
// Gaussian elimination with partial pivoting. The FRF solve is always at
// most 5x5 (see DESIGN.md for why this is hand-rolled rather than wired to
// a third-party linear-algebra package).
func complexSolve(h [][]complex128, f []complex128) ([]complex128, error) {
	n := len(f)
	if n == 0 {
		return nil, errors.New("empty system")
	}

	// Work on copies; augment f as an extra column.
	a := make([][]complex128, n)
	for i := range a {
		a[i] = make([]complex128, n+1)
		copy(a[i], h[i])
		a[i][n] = f[i]
	}

	for col := 0; col < n; col++ {
		pivot := col
		best := cmplxAbs(a[col][col])
		for r := col + 1; r < n; r++ {
			if v := cmplxAbs(a[r][col]); v > best {
				best = v
				pivot = r
			}
		}
		if best < 1e-14 {
			return nil, errors.New("singular operator")
		}
		if pivot != col {
			a[col], a[pivot] = a[pivot], a[col]
		}

		pv := a[col][col]
		for r := col + 1; r < n; r++ {
			if a[r][col] == 0 {
				continue
			}
			factor := a[r][col] / pv
			for c := col; c <= n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := a[i][n]
		for j := i + 1; j < n; j++ {
			sum -= a[i][j] * x[j]
		}
		x[i] = sum / a[i][i]
		if cmplxIsInvalid(x[i]) {
			return nil, errors.New("non-finite solution component")
		}
	}
	return x, nil
}

func cmplxIsInvalid(z complex128) bool {
	re, im := real(z), imag(z)
	return math.IsNaN(re) || math.IsNaN(im) || math.IsInf(re, 0) || math.IsInf(im, 0)
}
