package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/OldStager01/bikeshare-dashboard/internal/filter"
	"github.com/OldStager01/bikeshare-dashboard/internal/loader"
	"github.com/OldStager01/bikeshare-dashboard/internal/logger"
	"github.com/OldStager01/bikeshare-dashboard/internal/metrics"
	"github.com/OldStager01/bikeshare-dashboard/internal/preprocess"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

var ErrClosed = errors.New("session closed")

// Tables are the preprocessed inputs of one session. They are never
// modified after the session is built.
type Tables struct {
	Daily  []models.DailyRecord
	Hourly []models.HourlyRecord
	HasGeo bool
}

// Session owns the loaded tables for the lifetime of a dashboard process,
// or until a reload replaces it.
type Session struct {
	mu     sync.RWMutex
	name   string
	tables Tables
	info   models.DatasetInfo
	closed bool
}

// New loads and preprocesses both tables. Failures of the two files are
// reported together.
func New(cfg config.DataConfig) (*Session, error) {
	var result *multierror.Error

	daily, err := loadDaily(cfg.DailyPath)
	if err != nil {
		result = multierror.Append(result, err)
	}
	hourly, hasGeo, err := loadHourly(cfg.HourlyPath)
	if err != nil {
		result = multierror.Append(result, err)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	s := FromTables(datasetName(cfg), Tables{Daily: daily, Hourly: hourly, HasGeo: hasGeo})
	s.info.DailyPath = cfg.DailyPath
	s.info.HourlyPath = cfg.HourlyPath

	logger.WithDataset(s.name).WithFields(map[string]interface{}{
		"daily_rows":  s.info.DailyRows,
		"hourly_rows": s.info.HourlyRows,
		"has_geo":     hasGeo,
		"first_date":  s.info.FirstDate.Format(models.DateLayout),
		"last_date":   s.info.LastDate.Format(models.DateLayout),
	}).Info("Dataset loaded")

	m := metrics.Get()
	m.SetDatasetRows("daily", s.info.DailyRows)
	m.SetDatasetRows("hourly", s.info.HourlyRows)
	return s, nil
}

// FromTables wraps already preprocessed tables.
func FromTables(name string, t Tables) *Session {
	first, last := filter.DateSpan(t.Daily)
	unknown := 0
	for _, rec := range t.Daily {
		if !rec.Weather.IsKnown() {
			unknown++
		}
	}

	return &Session{
		name:   name,
		tables: t,
		info: models.DatasetInfo{
			DailyRows:   len(t.Daily),
			HourlyRows:  len(t.Hourly),
			FirstDate:   first,
			LastDate:    last,
			Weather:     filter.PresentWeather(t.Daily),
			DayTypes:    filter.PresentDayTypes(t.Daily),
			HasGeo:      t.HasGeo,
			LoadedAt:    time.Now(),
			UnknownRows: unknown,
		},
	}
}

func loadDaily(path string) ([]models.DailyRecord, error) {
	table, err := loader.LoadRequired(path, preprocess.DailyColumns...)
	if err != nil {
		return nil, fmt.Errorf("daily table: %w", err)
	}
	records, err := preprocess.Daily(table)
	if err != nil {
		return nil, fmt.Errorf("daily table: %w", err)
	}
	return records, nil
}

func loadHourly(path string) ([]models.HourlyRecord, bool, error) {
	table, err := loader.LoadRequired(path, preprocess.HourlyColumns...)
	if err != nil {
		return nil, false, fmt.Errorf("hourly table: %w", err)
	}
	records, err := preprocess.Hourly(table)
	if err != nil {
		return nil, false, fmt.Errorf("hourly table: %w", err)
	}
	return records, preprocess.HasCoordinates(table), nil
}

func datasetName(cfg config.DataConfig) string {
	if cfg.Name != "" {
		return cfg.Name
	}
	base := filepath.Base(cfg.DailyPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (s *Session) Name() string {
	return s.name
}

func (s *Session) Info() models.DatasetInfo {
	return s.info
}

// Tables returns the session's tables, or ErrClosed once Close has run.
// Callers must treat the returned slices as read-only.
func (s *Session) Tables() (Tables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Tables{}, ErrClosed
	}
	return s.tables, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.tables = Tables{}
	logger.WithDataset(s.name).Debug("Session closed")
	return nil
}

func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Store holds the current session and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Session]
}

func NewStore(s *Session) *Store {
	st := &Store{}
	st.current.Store(s)
	return st
}

func (st *Store) Current() *Session {
	return st.current.Load()
}

// Swap installs next and closes the previous session.
func (st *Store) Swap(next *Session) {
	if prev := st.current.Swap(next); prev != nil && prev != next {
		_ = prev.Close()
	}
}

// Tables reads from the current session. When a concurrent swap closed the
// session between lookup and read, the lookup is repeated.
func (st *Store) Tables() (*Session, Tables, error) {
	for {
		s := st.Current()
		if s == nil {
			return nil, Tables{}, ErrClosed
		}
		t, err := s.Tables()
		if err == nil {
			return s, t, nil
		}
		if st.Current() == s {
			return nil, Tables{}, err
		}
	}
}

func (st *Store) Close() error {
	if s := st.current.Swap(nil); s != nil {
		return s.Close()
	}
	return nil
}
