package loader

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/xuri/excelize/v2"
)

const (
	xlsxDateLayout     = "2006-01-02"
	xlsxDateTimeLayout = "2006-01-02 15:04:05"
)

type xlsxReader struct{}

// Read loads the first sheet. Cells are read raw, so date cells arrive as
// serial numbers and are turned back into ISO dates for columns whose first
// data cell carries a date format. Trailing empty cells are dropped by
// excelize, so rows are padded back to the header width.
func (xlsxReader) Read(path string) (dataframe.DataFrame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return dataframe.DataFrame{}, errors.New("workbook has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	if len(rows) == 0 {
		return dataframe.DataFrame{}, errors.New("sheet is empty")
	}

	width := len(rows[0])
	for i, row := range rows {
		if len(row) < width {
			padded := make([]string, width)
			copy(padded, row)
			rows[i] = padded
		}
	}

	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}
	for col := 0; col < width && len(rows) > 1; col++ {
		if !dateColumn(f, sheet, col) {
			continue
		}
		for r := 1; r < len(rows); r++ {
			rows[r][col] = serialToDate(rows[r][col], date1904)
		}
	}

	return dataframe.LoadRecords(rows, dataframe.HasHeader(true)), nil
}

// dateColumn reports whether the first data cell of col is formatted as a
// date or time.
func dateColumn(f *excelize.File, sheet string, col int) bool {
	cell, err := excelize.CoordinatesToCellName(col+1, 2)
	if err != nil {
		return false
	}
	id, err := f.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	style, err := f.GetStyle(id)
	if err != nil || style == nil {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormatCode(*style.CustomNumFmt)
	}
	return isDateNumFmt(style.NumFmt)
}

// Built-in number formats 14-22 and 45-47 are dates and times; 27-36 and
// 50-58 are their East Asian variants.
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// isDateFormatCode looks for date tokens outside quoted text and brackets.
func isDateFormatCode(code string) bool {
	inQuote, inBracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		case r == 'y' || r == 'd' || r == 'm':
			return true
		}
	}
	return false
}

// serialToDate converts an Excel serial number; anything else is kept.
func serialToDate(value string, date1904 bool) string {
	serial, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	t, err := excelize.ExcelDateToTime(serial, date1904)
	if err != nil {
		return value
	}
	if serial == math.Trunc(serial) {
		return t.Format(xlsxDateLayout)
	}
	return t.Format(xlsxDateTimeLayout)
}
