package dsv

import (
	"github.com/go-sif/redact"
)

// Appends a slice of strings to a Partition as a Row. Values equal to the
// nilValue become nil.
func scanRow(nilValue string, names []string, rowStrings []string, part redact.BuildablePartition) error {
	hasNil := false
	for _, colVal := range rowStrings {
		if colVal == nilValue {
			hasNil = true
			break
		}
	}
	if !hasNil {
		return part.AppendRowData(rowStrings)
	}
	row, err := part.AppendEmptyRow()
	if err != nil {
		return err
	}
	for i, colVal := range rowStrings {
		// check for a nil value
		if colVal == nilValue {
			continue
		}
		if err := row.SetString(names[i], colVal); err != nil {
			return err
		}
	}
	return nil
}
