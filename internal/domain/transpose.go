package domain

import "math"

// Transpose converts field-oriented columns into row-oriented records. The
// result has as many rows as the longest column. A column only contributes to
// rows below its own length, so short columns leave their key absent instead
// of being padded.
func Transpose(cols RawColumnSeries) []Row {
	n := 0
	for _, samples := range cols {
		n = max(n, len(samples))
	}

	rows := make([]Row, n)
	for i := range rows {
		rows[i] = make(Row, len(cols))
	}
	for field, samples := range cols {
		for i, v := range samples {
			rows[i][field] = v
		}
	}
	return rows
}

// Float returns the sample for field, treating absent and null as 0.
func (r Row) Float(field string) float64 {
	if v := r[field]; v != nil {
		return *v
	}
	return 0
}

// Code returns the sample for field as an integer code, treating absent and
// null as DefaultWeatherCode.
func (r Row) Code(field string) int {
	if v := r[field]; v != nil {
		return weatherCode(*v)
	}
	return DefaultWeatherCode
}

// maxCodeMagnitude bounds the samples accepted as weather codes.
const maxCodeMagnitude = 1e6

// weatherCode truncates a numeric sample to a weather code. Non-finite and
// implausibly large samples become UnmatchedWeatherCode.
func weatherCode(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) > maxCodeMagnitude {
		return UnmatchedWeatherCode
	}
	return int(v)
}
