package spreadsheet

// SetSelection replaces the current selection. Duplicates are dropped and
// the first occurrence keeps its position.
func (s *Spreadsheet) SetSelection(refs []CellRef) {
	seen := make(map[CellRef]struct{}, len(refs))
	selection := make([]CellRef, 0, len(refs))
	for _, ref := range refs {
		if ref.Row < 0 || ref.Col < 0 {
			continue
		}
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		selection = append(selection, ref)
	}
	s.selection = selection
}

// Select replaces the selection with the given A1 names or ranges.
func (s *Spreadsheet) Select(ranges ...string) error {
	var refs []CellRef
	for _, rng := range ranges {
		expanded, err := ParseRange(rng)
		if err != nil {
			return err
		}
		refs = append(refs, expanded...)
	}
	s.SetSelection(refs)
	return nil
}

// SelectedCellReferences returns a copy of the current selection.
func (s *Spreadsheet) SelectedCellReferences() []CellRef {
	if s == nil {
		return nil
	}
	out := make([]CellRef, len(s.selection))
	copy(out, s.selection)
	return out
}

// SelectionRanges returns the selection as compact A1-style ranges.
func (s *Spreadsheet) SelectionRanges() []string {
	return CompactRanges(s.SelectedCellReferences())
}

func (s *Spreadsheet) ClearSelection() {
	s.selection = nil
}
