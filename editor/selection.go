package editor

import (
	"slices"

	"github.com/vsariola/timeline"
)

// Selection is an ordered set of object IDs. All objects in a selection are
// shown in the same view.
type Selection struct {
	ids []timeline.ObjectID
}

func (s *Selection) Has(id timeline.ObjectID) bool {
	return slices.Contains(s.ids, id)
}

// Add appends id unless it is already selected.
func (s *Selection) Add(id timeline.ObjectID) {
	if !s.Has(id) {
		s.ids = append(s.ids, id)
	}
}

func (s *Selection) Remove(id timeline.ObjectID) {
	s.ids = slices.DeleteFunc(s.ids, func(i timeline.ObjectID) bool { return i == id })
}

func (s *Selection) Set(ids ...timeline.ObjectID) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		s.Add(id)
	}
}

func (s *Selection) Clear() {
	s.ids = s.ids[:0]
}

func (s *Selection) Len() int { return len(s.ids) }

// IDs returns a copy of the selected IDs.
func (s *Selection) IDs() []timeline.ObjectID {
	return slices.Clone(s.ids)
}

func (s *Selection) clone() Selection {
	return Selection{ids: slices.Clone(s.ids)}
}
