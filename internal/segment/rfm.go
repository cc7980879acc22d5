package segment

import (
	"fmt"
	"sort"
	"time"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

// RFM profiles every distinct date of the daily table and clusters the
// min-max scaled (recency, frequency, monetary) vectors.
//
// Recency is the number of days between a date and the latest date in the
// table. Frequency is the number of rows for the date, which is always 1 for
// a well-formed daily table, so it scales to 0 and does not affect the
// result. Monetary is the summed count.
func RFM(records []models.DailyRecord, km KMeans) (*models.RFMSegmentation, error) {
	rows := profile(records)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no dated rows", ErrTooFewPoints)
	}

	recency := make([]float64, len(rows))
	frequency := make([]float64, len(rows))
	monetary := make([]float64, len(rows))
	for i, r := range rows {
		recency[i] = float64(r.Recency)
		frequency[i] = float64(r.Frequency)
		monetary[i] = float64(r.Monetary)
	}
	recency, frequency, monetary = MinMax(recency), MinMax(frequency), MinMax(monetary)

	points := make([][]float64, len(rows))
	for i := range rows {
		rows[i].Scaled = [3]float64{recency[i], frequency[i], monetary[i]}
		points[i] = rows[i].Scaled[:]
	}

	res, err := km.Fit(points)
	if err != nil {
		return nil, fmt.Errorf("rfm segmentation: %w", err)
	}

	seg := &models.RFMSegmentation{
		Rows:        rows,
		Assignments: make([]models.ClusterAssignment, len(rows)),
		Inertia:     res.Inertia,
	}
	totals := make([]models.ClusterTotal, len(res.Centroids))
	for c := range totals {
		totals[c].Cluster = c
	}
	for i := range seg.Rows {
		label := res.Labels[i]
		seg.Rows[i].Cluster = label
		seg.Assignments[i] = models.ClusterAssignment{
			Key:     seg.Rows[i].Date.Format(models.DateLayout),
			Cluster: label,
		}
		totals[label].Total += seg.Rows[i].Monetary
		totals[label].Members++
	}
	for _, t := range totals {
		if t.Members > 0 {
			seg.MonetaryByCluster = append(seg.MonetaryByCluster, t)
		}
	}
	return seg, nil
}

// profile groups records by calendar day in ascending order.
func profile(records []models.DailyRecord) []models.RFMRow {
	byDate := make(map[time.Time]*models.RFMRow)
	var latest time.Time
	for _, rec := range records {
		d := models.TruncateDay(rec.Date)
		row, ok := byDate[d]
		if !ok {
			row = &models.RFMRow{Date: d}
			byDate[d] = row
		}
		row.Frequency++
		row.Monetary += rec.Count
		if d.After(latest) {
			latest = d
		}
	}

	rows := make([]models.RFMRow, 0, len(byDate))
	for _, row := range byDate {
		row.Recency = int(latest.Sub(row.Date).Hours() / 24)
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}
