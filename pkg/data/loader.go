package data

import (
	"bufio"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	dataframe "github.com/rocketlaunchr/dataframe-go"
)

var (
	ErrNoRows        = errors.New("csv has no data rows")
	ErrTargetMissing = errors.New("target column not found")
	ErrBadLabel      = errors.New("label must be 0 or 1")
	ErrNoFeatures    = errors.New("csv has no feature columns")
)

// Dataset is a loaded CSV held as one float64 series per column.
// Missing cells are stored as NaN.
type Dataset struct {
	Frame    *dataframe.DataFrame
	Features []string
	Target   string

	cols map[string]*dataframe.SeriesFloat64
}

func isMissing(s string) bool {
	switch strings.TrimSpace(s) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

// LoadCSV reads the file at path. If target names a header column it is split
// off from the features; otherwise every column is a feature.
func LoadCSV(path, target string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := ReadCSV(f, target)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return ds, nil
}

// ReadCSV is LoadCSV over an arbitrary reader.
func ReadCSV(r io.Reader, target string) (*Dataset, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	}
	if err != nil {
		return nil, errors.Wrap(err, "read header")
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	columns := make([][]interface{}, len(header))
	line := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		for j, s := range rec {
			if isMissing(s) {
				columns[j] = append(columns[j], nil)
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, errors.Errorf("line %d column %q: %q is not numeric", line, header[j], s)
			}
			columns[j] = append(columns[j], v)
		}
	}
	if line == 1 {
		return nil, ErrNoRows
	}

	ds := &Dataset{cols: make(map[string]*dataframe.SeriesFloat64, len(header))}
	series := make([]dataframe.Series, len(header))
	for j, name := range header {
		s := dataframe.NewSeriesFloat64(name, nil, columns[j]...)
		series[j] = s
		ds.cols[name] = s
		if name == target {
			ds.Target = name
		} else {
			ds.Features = append(ds.Features, name)
		}
	}
	ds.Frame = dataframe.NewDataFrame(series...)
	return ds, nil
}

// NRows returns the number of samples.
func (d *Dataset) NRows() int { return d.Frame.NRows() }

// HasTarget reports whether the label column was present in the file.
func (d *Dataset) HasTarget() bool { return d.Target != "" }

// Matrix returns the feature matrix in row-major order, NaN where missing.
func (d *Dataset) Matrix() [][]float64 {
	n := d.NRows()
	X := make([][]float64, n)
	for i := range X {
		X[i] = make([]float64, len(d.Features))
	}
	for j, name := range d.Features {
		vals := d.cols[name].Values
		for i := 0; i < n; i++ {
			X[i][j] = vals[i]
		}
	}
	return X
}

// Labels returns the target column. Every label must be present and 0 or 1.
func (d *Dataset) Labels() ([]float64, error) {
	if !d.HasTarget() {
		return nil, ErrTargetMissing
	}
	vals := d.cols[d.Target].Values
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v != 0 && v != 1 {
			return nil, errors.Wrapf(ErrBadLabel, "row %d has %v", i+1, v)
		}
		out[i] = v
	}
	return out, nil
}

// MissingCounts returns the number of missing cells per feature column.
func (d *Dataset) MissingCounts() map[string]int {
	out := make(map[string]int, len(d.Features))
	for _, name := range d.Features {
		c := 0
		for _, v := range d.cols[name].Values {
			if math.IsNaN(v) {
				c++
			}
		}
		out[name] = c
	}
	return out
}
