// Package corrfunc counts pairs of points in bins of separation s and
// line-of-sight cosine mu, the DD(s, mu) term of two-point correlation
// function estimators.
//
// The line of sight is the z axis. For a pair with displacement d and
// separation s = |d|, mu = |d_z| / s. Radial bins are half-open [smin, smax);
// mu runs over [0, mu_max] in nmu equal bins.
//
// # Quick Start
//
//	radial, _ := bins.RadialFromEdges([]float64{0.1, 1, 5, 10, 20})
//	mu, _ := bins.NewMu(1.0, 10)
//
//	pts := corrfunc.Points[float64]{X: x, Y: y, Z: z}
//	res, err := corrfunc.Auto(ctx, pts, radial, mu,
//	    corrfunc.WithPeriodic(420),
//	    corrfunc.WithWorkers(8),
//	)
//	if err != nil {
//	    return err
//	}
//	defer res.Release()
//
//	for _, b := range res.Bins() {
//	    fmt.Println(b.SMin, b.SMax, b.MuMax, b.NPairs, b.WeightAvg)
//	}
//
// # Auto and Cross
//
// Auto takes one logical point set and counts each unordered pair once.
// Cross takes two sets and counts every ordered pair (point of set 1, point
// of set 2) once, even when a physical point appears in both.
//
// # Weights
//
// WithWeighting selects the pair weight:
//
//   - weights.None: every pair weighs 1
//   - weights.PairProduct: w_i * w_j
//   - weights.InverseBitwise: width / popcount(mask_i & mask_j) * w_i * w_j,
//     optionally scaled by an angular pair-weight table (WithPairWeights)
//
// Payloads are carried by Points.Weights and validated before any indexing.
//
// # Execution
//
// Points are binned into a cell lattice sized from the largest separation
// (WithRefine, WithMaxCellsPerDim). Primary cells are shared out over a pool
// of CPU workers (WithWorkers), or the cell pairs are offloaded to a device
// grid (WithAccelerator, WithAcceleratorEnabled). Every worker fills a
// private histogram and the partials are summed after all workers finish.
// Pair counts are identical for any worker count; floating sums agree to
// rounding.
//
// A run either succeeds and returns a Result or fails with an error and no
// Result. Errors match ErrInvalidConfig, ErrInvalidBins, ErrInvalidWeights,
// ErrLengthMismatch or ErrMemoryLimitExceeded with errors.Is.
package corrfunc
