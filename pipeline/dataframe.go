package pipeline

import (
	"fmt"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/aluiziolira/go-scrape-evds/models"
)

// DateColumn names the period column of tabular outputs.
const DateColumn = "Date"

// ToDataFrame converts result into a DataFrame with a string Date column and
// one float column per series. Missing values are NaN.
func ToDataFrame(result *models.ScrapeResult) (dataframe.DataFrame, error) {
	periods := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		periods[i] = row.Period
	}

	columns := []series.Series{series.New(periods, series.String, DateColumn)}
	for j, code := range result.Columns {
		values := make([]float64, len(result.Rows))
		for i, row := range result.Rows {
			values[i] = row.Values[j]
		}
		columns = append(columns, series.New(values, series.Float, code))
	}

	df := dataframe.New(columns...)
	if df.Err != nil {
		return df, fmt.Errorf("failed to build dataframe: %w", df.Err)
	}
	return df, nil
}
