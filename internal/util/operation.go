package util

import (
	"fmt"

	"github.com/go-sif/redact"
)

// SafeMapOperation wraps a MapOperation such that panics are recovered and nice error messages are constructed
func SafeMapOperation(mapOp redact.MapOperation) (safeMapOp redact.MapOperation) {
	return func(row redact.Row) (err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Map Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Map Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Map Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		err = mapOp(row)
		return
	}
}

// SafeColumnOperation wraps a ColumnOperation such that panics are recovered and nice error messages are constructed
func SafeColumnOperation(colOp redact.ColumnOperation) (safeColOp redact.ColumnOperation) {
	return func(row redact.Row) (value string, isNil bool, err error) {
		defer func() {
			if r := recover(); r != nil {
				if anErr, ok := r.(error); ok {
					err = fmt.Errorf("Column Panic: %w\nRow: %s\n%s", anErr, row.ToString(), GetTrace())
				} else {
					err = fmt.Errorf("Column Panic: %v\nRow: %s\n%s", r, row.ToString(), GetTrace())
				}
			} else if err != nil {
				err = fmt.Errorf("Column Error: %w\nRow: %s", err, row.ToString())
			}
		}()
		value, isNil, err = colOp(row)
		return
	}
}
