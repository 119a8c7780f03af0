// Package dataset reads the packed classifier data format used by the
// variational-classifier problems: a single line holding the training
// features, training labels, and test features, with sections separated
// by "XXX", feature rows by "S", and values by commas. Labels are ±1.
package dataset

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Dataset holds a parsed classification problem.
type Dataset struct {
	XTrain [][]float64
	YTrain []int
	XTest  [][]float64
}

// Features returns the feature dimensionality.
func (d *Dataset) Features() int {
	if len(d.XTrain) == 0 {
		return 0
	}
	return len(d.XTrain[0])
}

// Parse decodes the packed single-line format.
func Parse(s string) (*Dataset, error) {
	parts := strings.Split(strings.TrimSpace(s), "XXX")
	if len(parts) != 3 {
		return nil, fmt.Errorf("expected 3 sections separated by XXX, got %d", len(parts))
	}

	xTrain, err := parseRows(parts[0])
	if err != nil {
		return nil, fmt.Errorf("training features: %w", err)
	}
	yTrain, err := ParseLabels(parts[1])
	if err != nil {
		return nil, fmt.Errorf("training labels: %w", err)
	}
	xTest, err := parseRows(parts[2])
	if err != nil {
		return nil, fmt.Errorf("test features: %w", err)
	}

	if len(xTrain) != len(yTrain) {
		return nil, fmt.Errorf("%d training rows but %d labels", len(xTrain), len(yTrain))
	}

	d := &Dataset{XTrain: xTrain, YTrain: yTrain, XTest: xTest}
	width := d.Features()
	for i, row := range append(append([][]float64{}, xTrain...), xTest...) {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	return d, nil
}

// Load reads and parses a packed dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return Parse(string(data))
}

// ParseLabels decodes a comma-separated list of ±1 integer labels.
func ParseLabels(s string) ([]int, error) {
	fields := strings.Split(strings.TrimSpace(s), ",")
	labels := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad label %q: %w", f, err)
		}
		if v != 1 && v != -1 {
			return nil, fmt.Errorf("label %d out of range, want ±1", v)
		}
		labels = append(labels, v)
	}
	return labels, nil
}

// LoadLabels reads and parses a label file (the answer file paired with a
// packed dataset).
func LoadLabels(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read labels: %w", err)
	}
	return ParseLabels(string(data))
}

func parseRows(s string) ([][]float64, error) {
	rowStrings := strings.Split(strings.TrimSpace(s), "S")
	rows := make([][]float64, 0, len(rowStrings))
	for i, rs := range rowStrings {
		fields := strings.Split(strings.TrimSpace(rs), ",")
		row := make([]float64, 0, len(fields))
		for _, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: bad value %q: %w", i, f, err)
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
