package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleChecklist() Checklist {
	return Checklist{
		{ID: "a", Text: "Review literature", Completed: true},
		{ID: "b", Text: "Collect data"},
		{ID: "c", Text: "Draft report"},
	}
}

func TestChecklistAdd(t *testing.T) {
	c := sampleChecklist()

	got := c.Add("Present findings")

	require.Len(t, got, len(c)+1)
	last := got[len(got)-1]
	assert.Equal(t, "Present findings", last.Text)
	assert.False(t, last.Completed)
	assert.Len(t, last.ID, 9)
	assert.Equal(t, c, got[:len(c)], "existing items keep their order")
	assert.Len(t, c, 3, "receiver untouched")
}

func TestChecklistRemove(t *testing.T) {
	c := sampleChecklist()

	got := c.Remove("b")

	assert.Equal(t, Checklist{c[0], c[2]}, got)
	assert.Len(t, c, 3)
	assert.Equal(t, "b", c[1].ID)
	assert.Equal(t, c, c.Remove("missing"))
}

func TestChecklistToggle(t *testing.T) {
	c := sampleChecklist()

	for _, item := range c {
		once := c.Toggle(item.ID)
		require.Len(t, once, len(c))

		for i := range once {
			if once[i].ID == item.ID {
				assert.Equal(t, !item.Completed, once[i].Completed)
			} else {
				assert.Equal(t, c[i], once[i])
			}
		}

		assert.Equal(t, c, once.Toggle(item.ID), "toggling twice restores the item")
	}

	assert.True(t, c[0].Completed, "receiver untouched")
}

func TestChecklistProgress(t *testing.T) {
	assert.Equal(t, 0.0, Checklist{}.Progress())
	assert.Equal(t, 0, Checklist(nil).Completed())

	c := sampleChecklist()
	assert.Equal(t, 1, c.Completed())
	assert.InDelta(t, 1.0/3.0, c.Progress(), 1e-9)
}
