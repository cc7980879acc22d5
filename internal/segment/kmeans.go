package segment

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	// ErrTooFewPoints is returned when there are fewer points than clusters.
	ErrTooFewPoints = errors.New("too few points to cluster")
	ErrInvalidInput = errors.New("invalid clustering input")
)

// KMeans holds the clustering parameters. The zero value is not usable;
// start from DefaultKMeans.
type KMeans struct {
	K         int
	Seed      int64
	Restarts  int
	MaxIter   int
	Tolerance float64
}

// ClusterCount is the number of segments every clustering produces.
const ClusterCount = 3

func DefaultKMeans() KMeans {
	return KMeans{
		K:         ClusterCount,
		Seed:      42,
		Restarts:  10,
		MaxIter:   300,
		Tolerance: 1e-4,
	}
}

type Result struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
}

// Sizes returns the number of points assigned to each cluster.
func (r Result) Sizes() []int {
	sizes := make([]int, len(r.Centroids))
	for _, l := range r.Labels {
		sizes[l]++
	}
	return sizes
}

// Fit partitions points into K clusters. Every restart seeds its centroids
// with k-means++ from a generator derived from Seed, so the same input always
// yields the same labels. The restart with the lowest inertia wins; ties keep
// the earlier restart.
func (km KMeans) Fit(points [][]float64) (Result, error) {
	km = km.withDefaults()

	if len(points) < km.K {
		return Result{}, fmt.Errorf("%w: %d points for %d clusters", ErrTooFewPoints, len(points), km.K)
	}
	dims := len(points[0])
	if dims == 0 {
		return Result{}, fmt.Errorf("%w: points have no dimensions", ErrInvalidInput)
	}
	for i, p := range points {
		if len(p) != dims {
			return Result{}, fmt.Errorf("%w: point %d has %d dimensions, want %d", ErrInvalidInput, i, len(p), dims)
		}
		for _, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Result{}, fmt.Errorf("%w: point %d is not finite", ErrInvalidInput, i)
			}
		}
	}

	tol := km.Tolerance * meanVariance(points)
	rng := rand.New(rand.NewSource(km.Seed))

	var best Result
	for r := 0; r < km.Restarts; r++ {
		centroids := seedPlusPlus(points, km.K, rng)
		res := lloyd(points, centroids, km.MaxIter, tol)
		if r == 0 || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

func (km KMeans) withDefaults() KMeans {
	def := DefaultKMeans()
	if km.K <= 0 {
		km.K = def.K
	}
	if km.Restarts <= 0 {
		km.Restarts = def.Restarts
	}
	if km.MaxIter <= 0 {
		km.MaxIter = def.MaxIter
	}
	if km.Tolerance < 0 {
		km.Tolerance = def.Tolerance
	}
	return km
}

// seedPlusPlus picks the first centroid uniformly and every next one with
// probability proportional to its squared distance from the nearest chosen
// centroid. When all points coincide with chosen centroids it falls back to
// a uniform pick.
func seedPlusPlus(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(points[rng.Intn(len(points))]))

	dist := make([]float64, len(points))
	for i, p := range points {
		dist[i] = sqDist(p, centroids[0])
	}

	for len(centroids) < k {
		total := floats.Sum(dist)
		var next int
		if total <= 0 {
			next = rng.Intn(len(points))
		} else {
			target := rng.Float64() * total
			next = len(points) - 1
			var acc float64
			for i, d := range dist {
				acc += d
				if acc >= target && d > 0 {
					next = i
					break
				}
			}
		}

		c := clone(points[next])
		centroids = append(centroids, c)
		for i, p := range points {
			if d := sqDist(p, c); d < dist[i] {
				dist[i] = d
			}
		}
	}
	return centroids
}

// lloyd iterates assignment and update steps until the total squared
// centroid shift drops to tol or maxIter is reached. A cluster that loses
// all of its points keeps its previous centroid.
func lloyd(points, centroids [][]float64, maxIter int, tol float64) Result {
	k := len(centroids)
	dims := len(points[0])
	labels := make([]int, len(points))

	iter := 0
	for iter < maxIter {
		iter++
		assign(points, centroids, labels)

		sums := make([][]float64, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			floats.Add(sums[labels[i]], p)
			counts[labels[i]]++
		}

		var shift float64
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			shift += sqDist(sums[c], centroids[c])
			centroids[c] = sums[c]
		}
		if shift <= tol {
			break
		}
	}

	inertia := assign(points, centroids, labels)
	return Result{
		Labels:     labels,
		Centroids:  centroids,
		Inertia:    inertia,
		Iterations: iter,
	}
}

// assign writes the nearest centroid of every point into labels and returns
// the inertia. Ties go to the lowest centroid index.
func assign(points, centroids [][]float64, labels []int) float64 {
	var inertia float64
	for i, p := range points {
		bestC, bestD := 0, math.Inf(1)
		for c, centroid := range centroids {
			if d := sqDist(p, centroid); d < bestD {
				bestC, bestD = c, d
			}
		}
		labels[i] = bestC
		inertia += bestD
	}
	return inertia
}

func meanVariance(points [][]float64) float64 {
	dims := len(points[0])
	n := float64(len(points))
	column := make([]float64, len(points))

	var total float64
	for d := 0; d < dims; d++ {
		for i, p := range points {
			column[i] = p[d]
		}
		if len(points) > 1 {
			_, variance := stat.MeanVariance(column, nil)
			total += variance * (n - 1) / n
		}
	}
	return total / float64(dims)
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func clone(p []float64) []float64 {
	out := make([]float64, len(p))
	copy(out, p)
	return out
}
