package task

import "fmt"

// ColumnResult holds the raw values of one column of a frame, top to bottom.
type ColumnResult struct {
	Column uint
	Values []float64
}

func (cr *ColumnResult) String() string {
	output := "{ColumnResult "
	output += fmt.Sprintf("Column: %d ", cr.Column)
	output += fmt.Sprintf("Values: %d}", len(cr.Values))
	return output
}
