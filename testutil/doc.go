// Package testutil provides testing utilities for the pair counter.
//
// This package is intended for use in tests and benchmarks only.
// It provides seeded point-cloud generators and an O(N^2) reference pair
// counter used as ground truth for the gridded engine.
//
// # Random Point Clouds
//
//	rng := testutil.NewRNG(seed)
//	pts := rng.UniformPoints(200, 10)            // uniform in [0, 10)^3
//	cl := rng.ClusteredPoints(1000, 5, 0.3, 10)  // 5 Gaussian clumps
//
// # Reference Counts
//
//	ref := testutil.BruteForce(testutil.BruteParams{
//	    Supp: []float64{0, 1, 2}, MuMax: 1, NMu: 4,
//	}, pts, testutil.Points{}, true)
package testutil
