package task_test

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mandelhue/plane"
	"mandelhue/task"
)

func TestTaskColumns(t *testing.T) {
	tk := task.NewTask(3, task.Frame{Centre: plane.New(-0.5, 0), Number: 1, Zoom: 8})
	tk.AddColumns(4, 7)
	require.Equal(t, []uint{4, 5, 6}, tk.Columns)

	for want := uint(4); want < 7; want++ {
		assert.False(t, tk.Done())
		column, err := tk.GetNextColumn()
		require.NoError(t, err)
		assert.Equal(t, want, column)
		tk.AddResult([]float64{float64(want)})
	}

	assert.True(t, tk.Done())
	_, err := tk.GetNextColumn()
	assert.Error(t, err)
	assert.Equal(t, uint(6), tk.Results[2].Column)
}

func TestIsAllTasksHandedOut(t *testing.T) {
	assert.True(t, task.IsAllTasksHandedOut(task.ErrAllTasksHandedOut))
	assert.True(t, task.IsAllTasksHandedOut(errors.New(task.ErrAllTasksHandedOut.Error())))
	assert.False(t, task.IsAllTasksHandedOut(errors.New("connection reset")))
	assert.False(t, task.IsAllTasksHandedOut(nil))
}

func TestGenerationText(t *testing.T) {
	var g task.Generation
	require.NoError(t, json.Unmarshal([]byte(`"image"`), &g))
	assert.Equal(t, task.Image, g)
	assert.Error(t, json.Unmarshal([]byte(`"row"`), &g))

	encoded, err := json.Marshal(task.Column)
	require.NoError(t, err)
	assert.Equal(t, `"Column"`, string(encoded))
}

func TestTaskCrossesGob(t *testing.T) {
	tk := task.NewTask(9, task.Frame{Centre: plane.New(0.25, -0.1), Number: 2, Zoom: 64})
	tk.AddColumns(0, 2)
	tk.AddResult([]float64{0.5, 1.5})
	tk.WorkerAddress = "127.0.0.1:9000"

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(tk))
	var decoded task.Task
	require.NoError(t, gob.NewDecoder(&buf).Decode(&decoded))
	assert.Equal(t, tk, decoded)
}
