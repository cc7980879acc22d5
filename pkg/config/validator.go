package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/OldStager01/bikeshare-dashboard/internal/segment"
)

func (c *Config) Validate() error {
	var result *multierror.Error

	// App validation
	if c.App.Name == "" {
		result = multierror.Append(result, errors.New("app.name is required"))
	}

	validModes := map[string]bool{"development": true, "production": true, "test": true}
	if !validModes[c.App.Mode] {
		result = multierror.Append(result, fmt.Errorf("app.mode must be one of: development, production, test"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.App.LogLevel] {
		result = multierror.Append(result, fmt.Errorf("app.log_level must be one of: debug, info, warn, error"))
	}

	// Data validation
	if c.Data.DailyPath == "" {
		result = multierror.Append(result, errors.New("data.daily_path is required"))
	}
	if c.Data.HourlyPath == "" {
		result = multierror.Append(result, errors.New("data.hourly_path is required"))
	}
	if c.Data.Watch && c.Data.WatchDebounce < 0 {
		result = multierror.Append(result, errors.New("data.watch_debounce must not be negative"))
	}

	// Segmentation validation
	if c.Segmentation.Clusters != segment.ClusterCount {
		result = multierror.Append(result, fmt.Errorf("segmentation.clusters must be %d", segment.ClusterCount))
	}
	if c.Segmentation.Restarts < 1 {
		result = multierror.Append(result, errors.New("segmentation.restarts must be positive"))
	}
	if c.Segmentation.MaxIter < 1 {
		result = multierror.Append(result, errors.New("segmentation.max_iter must be positive"))
	}
	if c.Segmentation.Tolerance < 0 {
		result = multierror.Append(result, errors.New("segmentation.tolerance must not be negative"))
	}

	// API validation
	if c.API.Port <= 0 || c.API.Port > 65535 {
		result = multierror.Append(result, errors.New("api.port must be between 1 and 65535"))
	}
	if c.API.RateLimit < 0 {
		result = multierror.Append(result, errors.New("api.rate_limit must not be negative"))
	}

	if c.Prometheus.Enabled {
		if c.Prometheus.Port <= 0 || c.Prometheus.Port > 65535 {
			result = multierror.Append(result, errors.New("prometheus.port must be between 1 and 65535"))
		}
		if c.Prometheus.Port == c.API.Port {
			result = multierror.Append(result, errors.New("prometheus.port must differ from api.port"))
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}
