package models

import "time"

// ClusterAssignment maps an entity key (a date or an hour of day) to a
// cluster label. Labels carry no meaning beyond grouping.
type ClusterAssignment struct {
	Key     string `json:"key"`
	Cluster int    `json:"cluster"`
}

// RFMRow is the recency/frequency/monetary profile of a single date.
type RFMRow struct {
	Date      time.Time  `json:"date"`
	Recency   int        `json:"recency"`
	Frequency int        `json:"frequency"`
	Monetary  int        `json:"monetary"`
	Scaled    [3]float64 `json:"scaled"`
	Cluster   int        `json:"cluster"`
}

type ClusterTotal struct {
	Cluster int `json:"cluster"`
	Total   int `json:"total"`
	Members int `json:"members"`
}

type RFMSegmentation struct {
	Rows              []RFMRow            `json:"rows"`
	MonetaryByCluster []ClusterTotal      `json:"monetary_by_cluster"`
	Assignments       []ClusterAssignment `json:"assignments"`
	Inertia           float64             `json:"inertia"`
}

// HourBucket is the total number of rides for one hour of day.
type HourBucket struct {
	Hour       int `json:"hour"`
	TotalRides int `json:"total_rides"`
	Cluster    int `json:"cluster"`
}

type HourlySegmentation struct {
	Buckets     []HourBucket        `json:"buckets"`
	Assignments []ClusterAssignment `json:"assignments"`
	Inertia     float64             `json:"inertia"`
}
