package session_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/bikeshare-dashboard/internal/events"
	"github.com/OldStager01/bikeshare-dashboard/internal/loader"
	"github.com/OldStager01/bikeshare-dashboard/internal/preprocess"
	"github.com/OldStager01/bikeshare-dashboard/internal/session"
	"github.com/OldStager01/bikeshare-dashboard/pkg/config"
	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

const dailyCSV = `dteday,weathersit,weekday,cnt
2011-01-01,2,6,985
2011-01-02,2,0,801
2011-01-03,1,1,1349
2011-01-04,7,2,1562
`

const hourlyCSV = `dteday,hr,cnt,lat,long
2011-01-01,0,16,38.90,-77.03
2011-01-01,1,40,38.91,-77.02
`

func writeDataset(t *testing.T, daily, hourly string) config.DataConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DataConfig{
		Name:          "test",
		DailyPath:     filepath.Join(dir, "day.csv"),
		HourlyPath:    filepath.Join(dir, "hour.csv"),
		WatchDebounce: 20 * time.Millisecond,
	}
	require.NoError(t, os.WriteFile(cfg.DailyPath, []byte(daily), 0o644))
	require.NoError(t, os.WriteFile(cfg.HourlyPath, []byte(hourly), 0o644))
	return cfg
}

func TestNew(t *testing.T) {
	s, err := session.New(writeDataset(t, dailyCSV, hourlyCSV))
	require.NoError(t, err)
	defer s.Close()

	info := s.Info()
	assert.Equal(t, "test", s.Name())
	assert.Equal(t, 4, info.DailyRows)
	assert.Equal(t, 2, info.HourlyRows)
	assert.Equal(t, 1, info.UnknownRows)
	assert.True(t, info.HasGeo)
	assert.Equal(t, "2011-01-01", info.FirstDate.Format(models.DateLayout))
	assert.Equal(t, "2011-01-04", info.LastDate.Format(models.DateLayout))
	assert.Equal(t, []models.WeatherCategory{models.WeatherClear, models.WeatherCloudy}, info.Weather)

	tables, err := s.Tables()
	require.NoError(t, err)
	assert.Len(t, tables.Daily, 4)
	assert.True(t, tables.HasGeo)
}

func TestNew_ReportsBothFailures(t *testing.T) {
	cfg := config.DataConfig{
		DailyPath:  filepath.Join(t.TempDir(), "missing-day.csv"),
		HourlyPath: filepath.Join(t.TempDir(), "missing-hour.csv"),
	}

	_, err := session.New(cfg)

	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrDataUnavailable)
	assert.Contains(t, err.Error(), "missing-day.csv")
	assert.Contains(t, err.Error(), "missing-hour.csv")
}

func TestNew_InvalidDate(t *testing.T) {
	cfg := writeDataset(t, "dteday,weathersit,weekday,cnt\nsomeday,1,1,5\n", hourlyCSV)

	_, err := session.New(cfg)

	assert.ErrorIs(t, err, preprocess.ErrInvalidFormat)
}

func TestSession_Close(t *testing.T) {
	s := session.FromTables("x", session.Tables{})

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	assert.True(t, s.IsClosed())
	_, err := s.Tables()
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestStore_Swap(t *testing.T) {
	first := session.FromTables("first", session.Tables{})
	second := session.FromTables("second", session.Tables{})
	store := session.NewStore(first)

	store.Swap(second)

	assert.Same(t, second, store.Current())
	assert.True(t, first.IsClosed())

	s, _, err := store.Tables()
	require.NoError(t, err)
	assert.Equal(t, "second", s.Name())

	require.NoError(t, store.Close())
	_, _, err = store.Tables()
	assert.ErrorIs(t, err, session.ErrClosed)
}

func TestStore_ConcurrentReadsDuringSwap(t *testing.T) {
	store := session.NewStore(session.FromTables("0", session.Tables{}))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _, err := store.Tables()
				assert.NoError(t, err)
			}
		}()
	}
	for i := 0; i < 50; i++ {
		store.Swap(session.FromTables("n", session.Tables{}))
	}
	wg.Wait()
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	cfg := writeDataset(t, dailyCSV, hourlyCSV)
	initial, err := session.New(cfg)
	require.NoError(t, err)

	store := session.NewStore(initial)
	defer store.Close()
	bus := events.NewEventBus(8)
	defer bus.Close()
	reloads := bus.Subscribe(models.EventTypeDatasetReloaded)

	w, err := session.NewWatcher(cfg, store, events.NewPublisher(bus))
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(cfg.DailyPath, []byte(dailyCSV+"2011-01-05,1,3,1600\n"), 0o644))

	select {
	case e := <-reloads:
		assert.Equal(t, models.EventTypeDatasetReloaded, e.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload event")
	}
	assert.Equal(t, 5, store.Current().Info().DailyRows)
	assert.True(t, initial.IsClosed())
}

func TestWatcher_KeepsSessionOnFailure(t *testing.T) {
	cfg := writeDataset(t, dailyCSV, hourlyCSV)
	initial, err := session.New(cfg)
	require.NoError(t, err)

	store := session.NewStore(initial)
	defer store.Close()
	bus := events.NewEventBus(8)
	defer bus.Close()
	failures := bus.Subscribe(models.EventTypeDatasetReloadFailed)

	w, err := session.NewWatcher(cfg, store, events.NewPublisher(bus))
	require.NoError(t, err)
	defer w.Close()
	w.WithLoader(func(config.DataConfig) (*session.Session, error) {
		return nil, errors.New("corrupt")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(cfg.HourlyPath, []byte(hourlyCSV), 0o644))

	select {
	case <-failures:
	case <-time.After(5 * time.Second):
		t.Fatal("no failure event")
	}
	assert.Same(t, initial, store.Current())
	assert.False(t, initial.IsClosed())
}

func TestWatcher_PausesAfterRepeatedFailures(t *testing.T) {
	cfg := writeDataset(t, dailyCSV, hourlyCSV)
	cfg.ReloadMaxFailures = 1
	cfg.ReloadCooldown = time.Hour
	initial, err := session.New(cfg)
	require.NoError(t, err)

	store := session.NewStore(initial)
	defer store.Close()
	bus := events.NewEventBus(8)
	defer bus.Close()
	failures := bus.Subscribe(models.EventTypeDatasetReloadFailed)

	var calls atomic.Int32
	w, err := session.NewWatcher(cfg, store, events.NewPublisher(bus))
	require.NoError(t, err)
	defer w.Close()
	w.WithLoader(func(config.DataConfig) (*session.Session, error) {
		calls.Add(1)
		return nil, errors.New("corrupt")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(cfg.DailyPath, []byte(dailyCSV), 0o644))
	select {
	case <-failures:
	case <-time.After(5 * time.Second):
		t.Fatal("no failure event")
	}

	require.NoError(t, os.WriteFile(cfg.DailyPath, []byte(dailyCSV), 0o644))
	time.Sleep(300 * time.Millisecond)

	assert.Equal(t, int32(1), calls.Load())
	assert.Same(t, initial, store.Current())
}
