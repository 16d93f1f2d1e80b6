package weighting

import (
	"fmt"

	"github.com/carbocation/epiquark/distribution"
	"github.com/carbocation/epiquark/table"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
)

// Gauss weights row (x, d) by the sum over cells y with cases of d of
// c(y, d) * exp(-(x-y)' S^-1 (x-y) / 2), i.e. a Gaussian kernel scaled to 1
// at its center, over the coordinates in dims. A label without any case
// weighs 1 everywhere. With a timeAxis, rows outside their label's case
// window get weight 0 (see TimeMask).
func Gauss(eval *distribution.EvalTable, cases *table.Table, dims []string, cov *mat.SymDense, timeAxis string) ([]float64, error) {
	if len(dims) == 0 {
		dims = cases.Coords
	}

	positions := make([]int, len(dims))
	for i, d := range dims {
		if positions[i] = cases.CoordIndex(d); positions[i] < 0 {
			return nil, fmt.Errorf("gauss dimension %q is not a coordinate of %v", d, cases.Coords)
		}
	}

	if cov == nil {
		cov = identity(len(dims))
	}
	if n, _ := cov.Dims(); n != len(dims) {
		return nil, fmt.Errorf("covariance is %dx%d but there are %d gauss dimensions", n, n, len(dims))
	}

	kernel, ok := distmv.NewNormal(make([]float64, len(dims)), cov, nil)
	if !ok {
		return nil, fmt.Errorf("covariance is not positive definite")
	}
	peak := kernel.Prob(make([]float64, len(dims)))

	points := make(map[table.Key][]float64)
	project := func(cell table.Cell) ([]float64, error) {
		if p, ok := points[cell.Key()]; ok {
			return p, nil
		}
		p := make([]float64, len(positions))
		for i, pos := range positions {
			v, err := table.Numeric(cell[pos])
			if err != nil {
				return nil, err
			}
			p[i] = v
		}
		points[cell.Key()] = p
		return p, nil
	}

	type source struct {
		point []float64
		count float64
	}
	sources := make(map[string][]source)
	for _, r := range cases.Rows {
		if r.Value.Float64 <= 0 {
			continue
		}
		p, err := project(r.Cell)
		if err != nil {
			return nil, err
		}
		sources[r.Label] = append(sources[r.Label], source{point: p, count: r.Value.Float64})
	}

	out := make([]float64, len(eval.Rows))
	diff := make([]float64, len(dims))
	for i, r := range eval.Rows {
		src, ok := sources[r.Label]
		if !ok {
			out[i] = 1
			continue
		}

		x, err := project(r.Cell)
		if err != nil {
			return nil, err
		}
		for _, s := range src {
			for j := range diff {
				diff[j] = x[j] - s.point[j]
			}
			out[i] += s.count * kernel.Prob(diff) / peak
		}
	}

	if timeAxis == "" {
		return out, nil
	}

	mask, err := TimeMask(eval, cases, timeAxis)
	if err != nil {
		return nil, err
	}
	for i := range out {
		if !mask[i] {
			out[i] = 0
		}
	}

	return out, nil
}

func identity(n int) *mat.SymDense {
	out := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, 1)
	}

	return out
}

// DiagCovariance builds a diagonal covariance from per-dimension variances.
func DiagCovariance(variances []float64) *mat.SymDense {
	out := mat.NewSymDense(len(variances), nil)
	for i, v := range variances {
		out.SetSym(i, i, v)
	}

	return out
}
