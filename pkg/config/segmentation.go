package config

import "github.com/OldStager01/bikeshare-dashboard/internal/segment"

func (s SegmentationConfig) ToKMeans() segment.KMeans {
	return segment.KMeans{
		K:         s.Clusters,
		Seed:      s.Seed,
		Restarts:  s.Restarts,
		MaxIter:   s.MaxIter,
		Tolerance: s.Tolerance,
	}
}
