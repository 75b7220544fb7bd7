// Package manifest reads the tabular CSV manifests of a bmad installation.
//
// The reader is a pure text-to-rows transform: it applies no semantic
// validation and degrades on malformed input instead of failing. Missing
// files are an expected state and yield no rows and no error; any other
// read failure is returned so the caller can record it.
package manifest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// Row is one manifest record: declared column name to trimmed cell value.
// Every row carries exactly the header's keys.
type Row map[string]string

// Kind names one manifest class.
type Kind string

const (
	KindCatalog  Kind = "catalog"
	KindAgent    Kind = "agent"
	KindWorkflow Kind = "workflow"
	KindTask     Kind = "task"
	KindTool     Kind = "tool"
)

// Kinds returns all manifest kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindCatalog, KindAgent, KindWorkflow, KindTask, KindTool}
}

// File returns the manifest file name for the kind, relative to the
// installation's _cfg directory.
func (k Kind) File() string {
	switch k {
	case KindCatalog:
		return "command-manifest.csv"
	case KindAgent:
		return "agent-manifest.csv"
	case KindWorkflow:
		return "workflow-manifest.csv"
	case KindTask:
		return "task-manifest.csv"
	case KindTool:
		return "tool-manifest.csv"
	}
	return string(k) + "-manifest.csv"
}

// Read loads one manifest file. A missing file returns (nil, nil); any
// other failure returns the error so the caller can record it as a scan
// issue. Row order follows file order.
func Read(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return parse(data), nil
}

// parse turns manifest text into rows. The first non-empty, non-comment
// line is the header; its trimmed tokens become the keys of every row.
// Quoting follows CSV rules: double-quote delimited fields may contain
// separators and comment markers, a doubled quote escapes to one literal
// quote. Rows shorter than the header fill missing fields with "", longer
// rows drop the extras, unparseable rows are skipped.
func parse(data []byte) []Row {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	r := csv.NewReader(bytes.NewReader(data))
	r.Comment = '#'
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var header []string
	var rows []Row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if blank(record) {
			continue
		}
		if header == nil {
			header = make([]string, len(record))
			for i, h := range record {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		row := make(Row, len(header))
		for i, key := range header {
			var value string
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[key] = value
		}
		rows = append(rows, row)
	}
	return rows
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
