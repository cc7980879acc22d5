package segment

import (
	"fmt"
	"strconv"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

const HoursPerDay = 24

// HourlyTotals sums ride counts per hour of day. Hours with no rows are
// present with a zero total.
func HourlyTotals(records []models.HourlyRecord) []models.HourBucket {
	buckets := make([]models.HourBucket, HoursPerDay)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, rec := range records {
		if rec.Hour < 0 || rec.Hour >= HoursPerDay {
			continue
		}
		buckets[rec.Hour].TotalRides += rec.Count
	}
	return buckets
}

// Hourly clusters the 24 hour-of-day buckets on their raw total.
func Hourly(records []models.HourlyRecord, km KMeans) (*models.HourlySegmentation, error) {
	buckets := HourlyTotals(records)

	points := make([][]float64, len(buckets))
	for i, b := range buckets {
		points[i] = []float64{float64(b.TotalRides)}
	}

	res, err := km.Fit(points)
	if err != nil {
		return nil, fmt.Errorf("hourly segmentation: %w", err)
	}

	seg := &models.HourlySegmentation{
		Buckets:     buckets,
		Assignments: make([]models.ClusterAssignment, len(buckets)),
		Inertia:     res.Inertia,
	}
	for i := range seg.Buckets {
		seg.Buckets[i].Cluster = res.Labels[i]
		seg.Assignments[i] = models.ClusterAssignment{
			Key:     strconv.Itoa(seg.Buckets[i].Hour),
			Cluster: res.Labels[i],
		}
	}
	return seg, nil
}
