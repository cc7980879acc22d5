package loader

import (
	"os"

	"github.com/go-gota/gota/dataframe"
)

type csvReader struct{}

func (csvReader) Read(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	return dataframe.ReadCSV(f, dataframe.HasHeader(true)), nil
}
