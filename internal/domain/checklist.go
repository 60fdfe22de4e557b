package domain

import (
	"slices"

	"github.com/mentorflow/mentorflow/internal/utils"
)

// Checklist is an ordered list of items. Its methods never modify the receiver; they return
// the new array to be written back as a whole.
type Checklist []ChecklistItem

func (c Checklist) Toggle(id string) Checklist {
	out := slices.Clone(c)
	for i := range out {
		if out[i].ID == id {
			out[i].Completed = !out[i].Completed
		}
	}
	return out
}

// Add appends an item with a locally generated id.
func (c Checklist) Add(text string) Checklist {
	return append(slices.Clone(c), ChecklistItem{
		ID:        utils.GenerateShortID(),
		Text:      text,
		Completed: false,
	})
}

func (c Checklist) Remove(id string) Checklist {
	return slices.DeleteFunc(slices.Clone(c), func(item ChecklistItem) bool {
		return item.ID == id
	})
}

func (c Checklist) Completed() int {
	n := 0
	for _, item := range c {
		if item.Completed {
			n++
		}
	}
	return n
}

// Progress is the completed fraction in [0, 1]; an empty checklist has no progress.
func (c Checklist) Progress() float64 {
	if len(c) == 0 {
		return 0
	}
	return float64(c.Completed()) / float64(len(c))
}
