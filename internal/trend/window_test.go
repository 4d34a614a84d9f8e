package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActiveWindow(t *testing.T) {
	weeks := []string{"w1", "w2", "w3", "w4", "w5", "w6"}
	tests := []struct {
		name string
		idx  int
		want []string
	}{
		{"latest", 5, []string{"w6", "w5", "w4", "w3"}},
		{"middle", 3, []string{"w4", "w3", "w2", "w1"}},
		{"short history", 1, []string{"w2", "w1"}},
		{"first week", 0, []string{"w1"}},
		{"past the end clamps", 42, []string{"w6", "w5", "w4", "w3"}},
		{"negative", -1, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ActiveWindow(weeks, tt.idx, WindowSize))
		})
	}
	assert.Nil(t, ActiveWindow([]string{}, 0, WindowSize))
}

func TestCurrentAndPrevious(t *testing.T) {
	cur, prev, ok := currentAndPrevious([]int{3, 2, 1})
	assert.True(t, ok)
	assert.Equal(t, 3, cur)
	assert.Equal(t, 2, prev)

	cur, _, ok = currentAndPrevious([]int{9})
	assert.False(t, ok)
	assert.Equal(t, 9, cur)
}
