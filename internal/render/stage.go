package render

import "slices"

// Stage is an ordered display list. Later children draw on top.
type Stage struct {
	children []*Sprite
}

func NewStage() *Stage {
	return &Stage{}
}

// AddChild appends s unless it is already on the stage.
func (st *Stage) AddChild(s *Sprite) {
	if s == nil || st.Contains(s) {
		return
	}
	st.children = append(st.children, s)
}

// RemoveChild removes s and reports whether it was present.
func (st *Stage) RemoveChild(s *Sprite) bool {
	i := slices.Index(st.children, s)
	if i < 0 {
		return false
	}
	st.children = slices.Delete(st.children, i, i+1)
	return true
}

func (st *Stage) Contains(s *Sprite) bool {
	return slices.Contains(st.children, s)
}

// Children returns a copy of the display list.
func (st *Stage) Children() []*Sprite {
	return slices.Clone(st.children)
}

func (st *Stage) Len() int { return len(st.children) }
