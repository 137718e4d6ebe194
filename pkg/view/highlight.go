package view

// Opacity levels for the highlight model. Selecting a node raises it and its
// direct neighbors to full opacity and dims everything else; deselecting
// returns every element to its resting level.
const (
	OpacityFull     = 1.0
	OpacityDimmed   = 0.3
	OpacityEdgeRest = 0.6
	OpacityHidden   = 0.0
)

// NodeOpacity returns the opacity for the node with the given id.
// connected must contain the selected node's one-hop neighborhood (it need
// not contain the selected id itself).
func (s *State) NodeOpacity(id string, connected map[string]bool) float64 {
	if s.SelectedID == "" {
		return OpacityFull
	}
	if id == s.SelectedID || connected[id] {
		return OpacityFull
	}
	return OpacityDimmed
}

// EdgeOpacity returns the opacity for the edge between source and target.
// Edges touching the selected node are raised to full opacity; with no
// selection every edge rests at OpacityEdgeRest.
func (s *State) EdgeOpacity(source, target string) float64 {
	if s.SelectedID == "" {
		return OpacityEdgeRest
	}
	if source == s.SelectedID || target == s.SelectedID {
		return OpacityFull
	}
	return OpacityDimmed
}

// LabelOpacity returns the opacity for a node's label. Hidden labels win over
// highlighting; otherwise labels track their node.
func (s *State) LabelOpacity(id string, connected map[string]bool) float64 {
	if !s.LabelsVisible {
		return OpacityHidden
	}
	return s.NodeOpacity(id, connected)
}
