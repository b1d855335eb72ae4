package spreadsheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef addresses a cell by zero-based row and column.
type CellRef struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Name returns the A1-style name of the reference, e.g. {0,0} -> "A1".
func (r CellRef) Name() string {
	name, err := excelize.CoordinatesToCellName(r.Col+1, r.Row+1)
	if err != nil {
		return ""
	}
	return name
}

func (r CellRef) String() string {
	return r.Name()
}

// ParseCellRef converts an A1-style name into a zero-based reference.
func ParseCellRef(name string) (CellRef, error) {
	col, row, err := excelize.CellNameToCoordinates(strings.TrimSpace(name))
	if err != nil {
		return CellRef{}, fmt.Errorf("parse cell reference %q: %w", name, err)
	}
	return CellRef{Row: row - 1, Col: col - 1}, nil
}

// MaxRangeCells bounds how many cells a single range may expand to.
const MaxRangeCells = 100000

// ParseRange expands "A1" or "A1:C3" into the references it covers,
// row by row. Reversed corners are normalised.
func ParseRange(rng string) ([]CellRef, error) {
	parts := strings.Split(rng, ":")
	switch len(parts) {
	case 1:
		ref, err := ParseCellRef(parts[0])
		if err != nil {
			return nil, err
		}
		return []CellRef{ref}, nil
	case 2:
		from, err := ParseCellRef(parts[0])
		if err != nil {
			return nil, err
		}
		to, err := ParseCellRef(parts[1])
		if err != nil {
			return nil, err
		}
		if from.Row > to.Row {
			from.Row, to.Row = to.Row, from.Row
		}
		if from.Col > to.Col {
			from.Col, to.Col = to.Col, from.Col
		}
		size := (to.Row - from.Row + 1) * (to.Col - from.Col + 1)
		if size > MaxRangeCells {
			return nil, fmt.Errorf("cell range %q covers %d cells, limit is %d", rng, size, MaxRangeCells)
		}
		refs := make([]CellRef, 0, size)
		for row := from.Row; row <= to.Row; row++ {
			for col := from.Col; col <= to.Col; col++ {
				refs = append(refs, CellRef{Row: row, Col: col})
			}
		}
		return refs, nil
	default:
		return nil, fmt.Errorf("invalid cell range %q", rng)
	}
}

type block struct {
	top, bottom, left, right int
}

// CompactRanges folds refs into as few A1-style rectangles as row runs allow:
// contiguous cells of a row become one run and identical runs on adjacent
// rows merge. The result is ordered by top row, then left column.
func CompactRanges(refs []CellRef) []string {
	if len(refs) == 0 {
		return []string{}
	}
	sorted := make([]CellRef, len(refs))
	copy(sorted, refs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Row != sorted[j].Row {
			return sorted[i].Row < sorted[j].Row
		}
		return sorted[i].Col < sorted[j].Col
	})

	var blocks []*block
	open := make(map[[2]int]*block)
	flush := func(row int, runs [][2]int) {
		next := make(map[[2]int]*block, len(runs))
		for _, run := range runs {
			if b, ok := open[run]; ok && b.bottom == row-1 {
				b.bottom = row
				next[run] = b
				continue
			}
			b := &block{top: row, bottom: row, left: run[0], right: run[1]}
			blocks = append(blocks, b)
			next[run] = b
		}
		open = next
	}

	var runs [][2]int
	row := sorted[0].Row
	for i, ref := range sorted {
		if i > 0 && ref == sorted[i-1] {
			continue
		}
		if ref.Row != row {
			flush(row, runs)
			runs, row = nil, ref.Row
		}
		if n := len(runs); n > 0 && runs[n-1][1] == ref.Col-1 {
			runs[n-1][1] = ref.Col
			continue
		}
		runs = append(runs, [2]int{ref.Col, ref.Col})
	}
	flush(row, runs)

	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].top != blocks[j].top {
			return blocks[i].top < blocks[j].top
		}
		return blocks[i].left < blocks[j].left
	})
	names := make([]string, 0, len(blocks))
	for _, b := range blocks {
		from := CellRef{Row: b.top, Col: b.left}.Name()
		if b.top == b.bottom && b.left == b.right {
			names = append(names, from)
			continue
		}
		names = append(names, from+":"+CellRef{Row: b.bottom, Col: b.right}.Name())
	}
	return names
}
