package vitals

// Visibility tracks which display groups are rendered. It only affects
// rendering; toggling never touches the window or the ranges.
type Visibility map[Group]bool

// NewVisibility returns a visibility set with every group shown.
func NewVisibility() Visibility {
	v := make(Visibility, len(Groups))
	for _, g := range Groups {
		v[g] = true
	}
	return v
}

// Toggle flips a group and returns its new state.
func (v Visibility) Toggle(g Group) bool {
	v[g] = !v[g]
	return v[g]
}

// Visible reports whether the group is shown.
func (v Visibility) Visible(g Group) bool {
	return v[g]
}

// VisibleGroups returns the shown groups in display order.
func (v Visibility) VisibleGroups() []Group {
	var out []Group
	for _, g := range Groups {
		if v[g] {
			out = append(out, g)
		}
	}
	return out
}

// VisibleMetrics returns the chart series of the shown groups.
func (v Visibility) VisibleMetrics() []Metric {
	var out []Metric
	for _, g := range v.VisibleGroups() {
		out = append(out, g.Metrics()...)
	}
	return out
}
