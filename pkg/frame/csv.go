package frame

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadCSV reads one frame from CSV data. The first record is the header.
// Empty cells become nil. A column becomes a number column only when every
// non-empty cell is a finite number written in shortest form, so "001",
// "1e3" and "NaN" keep a column textual; everything else is a string column.
func ReadCSV(r io.Reader, name string) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return New(name), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make([][]string, len(header))
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		for i := range header {
			cell := ""
			if i < len(rec) {
				cell = rec[i]
			}
			cols[i] = append(cols[i], cell)
		}
	}

	fr := New(name)
	for i, h := range header {
		fr.Fields = append(fr.Fields, csvField(strings.TrimSpace(h), cols[i]))
	}
	return fr, nil
}

func csvField(name string, cells []string) *Field {
	numeric := true
	seen := false
	for _, c := range cells {
		if c == "" {
			continue
		}
		seen = true
		if _, ok := parseNumber(c); !ok {
			numeric = false
			break
		}
	}

	f := &Field{Name: name, Type: FieldTypeString, Values: make([]any, len(cells))}
	if numeric && seen {
		f.Type = FieldTypeNumber
	}
	for i, c := range cells {
		switch {
		case c == "":
			f.Values[i] = nil
		case f.Type == FieldTypeNumber:
			v, _ := parseNumber(c)
			f.Values[i] = v
		default:
			f.Values[i] = c
		}
	}
	return f
}

// parseNumber parses cell as a finite float that formats back to cell.
func parseNumber(cell string) (float64, bool) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, strconv.FormatFloat(v, 'f', -1, 64) == cell
}

// ImportCSV reads the CSV file at path as a frame named after the file
// without its extension, so nodes.csv becomes the frame "nodes".
func ImportCSV(path string) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	fr, err := ReadCSV(f, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fr, nil
}

// ImportFiles loads frames from JSON and CSV files, in argument order.
func ImportFiles(paths ...string) ([]*Frame, error) {
	var frames []*Frame
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".csv":
			fr, err := ImportCSV(p)
			if err != nil {
				return nil, err
			}
			frames = append(frames, fr)
		case ".json":
			frs, err := ImportJSON(p)
			if err != nil {
				return nil, err
			}
			frames = append(frames, frs...)
		default:
			return nil, fmt.Errorf("%s: unsupported input format (want .json or .csv)", p)
		}
	}
	return frames, nil
}
