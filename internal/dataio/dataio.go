// Package dataio loads experimental time-course data from CSV files:
// a normalized observable matrix (rows = time points, header row names
// the observables) and a matching per-point standard deviation matrix.
package dataio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

var (
	// ErrNoData indicates an empty data file.
	ErrNoData = errors.New("dataio: no data rows")

	// ErrRaggedMatrix indicates rows with differing column counts.
	ErrRaggedMatrix = errors.New("dataio: ragged matrix")

	// ErrShapeMismatch indicates data and sigma matrices of different shape.
	ErrShapeMismatch = errors.New("dataio: data and sigma shapes differ")

	// ErrZeroSigma indicates a non-positive standard deviation entry.
	ErrZeroSigma = errors.New("dataio: standard deviation must be positive")
)

// Dataset pairs an observable time-course matrix with its per-point
// experimental standard deviations.
type Dataset struct {
	Names  []string
	Values [][]float64
	Sigma  [][]float64
}

// Load reads the data and sigma CSV files and validates their shapes.
func Load(dataPath, sigmaPath string) (*Dataset, error) {
	names, values, err := readMatrix(dataPath)
	if err != nil {
		return nil, err
	}
	_, sigma, err := readMatrix(sigmaPath)
	if err != nil {
		return nil, err
	}
	if len(sigma) != len(values) {
		return nil, fmt.Errorf("%w: %d data rows, %d sigma rows",
			ErrShapeMismatch, len(values), len(sigma))
	}
	for i := range values {
		if len(sigma[i]) != len(values[i]) {
			return nil, fmt.Errorf("%w: row %d", ErrShapeMismatch, i)
		}
		for j, s := range sigma[i] {
			if s <= 0 {
				return nil, fmt.Errorf("%w: row %d column %d", ErrZeroSigma, i, j)
			}
		}
	}
	return &Dataset{Names: names, Values: values, Sigma: sigma}, nil
}

// Rows is the number of time points.
func (d *Dataset) Rows() int { return len(d.Values) }

// Cols is the number of observables.
func (d *Dataset) Cols() int { return len(d.Names) }

// readMatrix parses a CSV file with a header row of column names
// followed by float rows.
func readMatrix(path string) ([]string, [][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("dataio: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("dataio: parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoData, path)
	}

	names := rows[0]
	values := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != len(names) {
			return nil, nil, fmt.Errorf("%w: %s row %d", ErrRaggedMatrix, path, i+1)
		}
		vals := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("dataio: %s row %d column %d: %w", path, i+1, j, err)
			}
			vals[j] = v
		}
		values = append(values, vals)
	}
	return names, values, nil
}
