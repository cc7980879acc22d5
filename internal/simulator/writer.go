package simulator

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"github.com/OldStager01/bikeshare-dashboard/pkg/models"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Paths are the files written by Write.
type Paths struct {
	Daily  string
	Hourly string
}

// Write stores the dataset as main_data_day and main_data_hour in dir.
func Write(ds Dataset, dir, format string) (Paths, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Paths{}, fmt.Errorf("failed to create %s: %w", dir, err)
	}

	paths := Paths{
		Daily:  filepath.Join(dir, "main_data_day."+format),
		Hourly: filepath.Join(dir, "main_data_hour."+format),
	}

	var write func(path string, rows [][]string) error
	switch format {
	case FormatCSV:
		write = writeCSV
	case FormatXLSX:
		write = writeXLSX
	default:
		return Paths{}, fmt.Errorf("unsupported format %q", format)
	}

	if err := write(paths.Daily, DailyRows(ds)); err != nil {
		return Paths{}, err
	}
	if err := write(paths.Hourly, HourlyRows(ds)); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// DailyRows renders the daily table, header first.
func DailyRows(ds Dataset) [][]string {
	rows := make([][]string, 0, len(ds.Daily)+1)
	rows = append(rows, []string{"dteday", "weathersit", "weekday", "cnt"})
	for _, r := range ds.Daily {
		rows = append(rows, []string{
			r.Date.Format(models.DateLayout),
			strconv.Itoa(r.WeatherCode),
			strconv.Itoa(r.Weekday),
			strconv.Itoa(r.Count),
		})
	}
	return rows
}

func HourlyRows(ds Dataset) [][]string {
	header := []string{"dteday", "hr", "cnt"}
	if ds.HasGeo {
		header = append(header, "lat", "long")
	}

	rows := make([][]string, 0, len(ds.Hourly)+1)
	rows = append(rows, header)
	for _, r := range ds.Hourly {
		row := []string{
			r.Date.Format(models.DateLayout),
			strconv.Itoa(r.Hour),
			strconv.Itoa(r.Count),
		}
		if ds.HasGeo && r.HasCoordinates() {
			row = append(row,
				strconv.FormatFloat(*r.Lat, 'f', 6, 64),
				strconv.FormatFloat(*r.Long, 'f', 6, 64),
			)
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(path string, rows [][]string) error {
	df := dataframe.LoadRecords(rows,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return fmt.Errorf("failed to build %s: %w", path, df.Err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := df.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = cellValue(i == 0, v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, path, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

// cellValue stores numbers as numbers so spreadsheets treat them as such.
func cellValue(header bool, v string) interface{} {
	if header {
		return v
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
