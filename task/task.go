package task

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAllTasksHandedOut is returned to workers once every task of the run has been ingested.
// It crosses net/rpc as a string, so compare with IsAllTasksHandedOut.
var ErrAllTasksHandedOut = errors.New("all tasks handed out")

var errNoMoreColumns = errors.New("no more columns")

func IsAllTasksHandedOut(err error) bool {
	return err != nil && err.Error() == ErrAllTasksHandedOut.Error()
}

const (
	Column Generation = iota
	Image
)

// Generation decides how many columns of a frame go into one task.
type Generation int

var generationNames = []string{
	"Column", "Image",
}

func (g Generation) String() string {
	return generationNames[g]
}

func (g Generation) MarshalText() ([]byte, error) {
	if g < Column || g > Image {
		return nil, fmt.Errorf("unknown generation type: %d", int(g))
	}
	return []byte(g.String()), nil
}

func (g *Generation) UnmarshalText(text []byte) error {
	for i, name := range generationNames {
		if strings.EqualFold(name, string(text)) {
			*g = Generation(i)
			return nil
		}
	}
	return fmt.Errorf("unknown generation type: %q", text)
}

type Task struct {
	Columns       []uint
	CurrentColumn uint
	Frame         Frame
	ID            uint
	Results       []ColumnResult
	WorkerAddress string
}

func NewTask(id uint, frame Frame) Task {
	return Task{
		Frame: frame,
		ID:    id,
	}
}

func (t *Task) String() string {
	output := "{Task "
	output += fmt.Sprintf("ID: %d ", t.ID)
	output += fmt.Sprintf("Frame Number: %d ", t.Frame.Number)
	output += fmt.Sprintf("Result Count: %d ", len(t.Results))
	output += fmt.Sprintf("Column Count: %d}", len(t.Columns))
	return output
}

func (t *Task) AddColumn(column uint) {
	t.Columns = append(t.Columns, column)
}

// AddColumns adds the columns [start, end).
func (t *Task) AddColumns(start uint, end uint) {
	for c := start; c < end; c++ {
		t.AddColumn(c)
	}
}

// GetNextColumn
// Returns the column to be evaluated next. Hand its values to AddResult before calling this method again
func (t *Task) GetNextColumn() (uint, error) {
	if len(t.Results) >= len(t.Columns) {
		return 0, errNoMoreColumns
	}
	return t.Columns[t.CurrentColumn], nil
}

// AddResult
// Records the values of the current column and moves on to the next one
func (t *Task) AddResult(values []float64) {
	t.Results = append(t.Results, ColumnResult{Column: t.Columns[t.CurrentColumn], Values: values})
	t.CurrentColumn++
}

func (t *Task) Done() bool {
	return len(t.Results) >= len(t.Columns)
}
