package export

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/user/scrapeflow/internal/entity"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Scraped Data"

// Flatten projects chunk extraction results onto a flat record list. A
// chunk value that is an object becomes one record; an array becomes one
// record per object element. Error-marker chunks and non-object values are
// skipped; the caller still sees them in the raw results.
func Flatten(results []entity.ChunkResult) []map[string]interface{} {
	var rows []map[string]interface{}
	for _, result := range results {
		if result.Error != "" || len(result.Data) == 0 {
			continue
		}

		var value interface{}
		if err := json.Unmarshal(result.Data, &value); err != nil {
			continue
		}

		switch v := value.(type) {
		case map[string]interface{}:
			rows = append(rows, v)
		case []interface{}:
			for _, elem := range v {
				if obj, ok := elem.(map[string]interface{}); ok {
					rows = append(rows, obj)
				}
			}
		}
	}
	return rows
}

// Headers returns the sorted union of field names across all records, so
// column order is deterministic regardless of map iteration order.
func Headers(rows []map[string]interface{}) []string {
	set := make(map[string]struct{})
	for _, row := range rows {
		for key := range row {
			set[key] = struct{}{}
		}
	}
	headers := make([]string, 0, len(set))
	for key := range set {
		headers = append(headers, key)
	}
	sort.Strings(headers)
	return headers
}

// EncodeXLSX renders the records as a single-sheet xlsx workbook. Nested
// values are embedded as compact JSON strings.
func EncodeXLSX(rows []map[string]interface{}) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("no records to export")
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, err
	}

	headers := Headers(rows)
	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, header := range headers {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, cellValue(row[header])); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func cellValue(v interface{}) interface{} {
	switch v.(type) {
	case nil:
		return ""
	case string, float64, bool:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
