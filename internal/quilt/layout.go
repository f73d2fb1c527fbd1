package quilt

// Layout constants are fixed configuration, not algorithmic decisions
// (spec.md §4.7: "All sizes and spacings are configuration constants; the
// algorithm that places them is deterministic from the input matrices").
// Grounded on create_image.py's hard-coded pixel/pt constants.
const (
	CellSize       = 24.0
	CellPadding    = 4.0
	LabelFontSize  = 10.0
	AgentCellSize  = 12.0
	ActivityHeight = 18.0
)

// CellKind distinguishes how a renderer should paint one occupied cell in
// the two-sided matrix.
type CellKind int

const (
	// CellPlain is a direct dependency to the adjacent layer.
	CellPlain CellKind = iota
	// CellBar is a "special" (non-adjacent-layer) dependency: the
	// dependent entity's color plus a black border (spec.md §4.7).
	CellBar
	// CellActivity is an activity cell (rendered grey).
	CellActivity
	// CellAgent is an agent-association cell (rendered black).
	CellAgent
)

// Cell is one placed, colored symbol in the quilt's geometric layout.
type Cell struct {
	Row, Col int
	X, Y     float64
	Kind     CellKind
	ColorIdx int // index into the global entity color order
	Label    string
	Rotated  bool // labels on the entity axis are rotated 90°, activity axis upright
}

// Placement is the fully geometric description of one Matrix: absolute
// pixel/point positions for every occupied left/right cell plus the
// activity row, ready for a raster backend to paint (spec.md §4.7's
// "algorithm that places them", independent of any particular image
// library).
type Placement struct {
	Cells      []Cell
	Width      float64
	Height     float64
}

// GlobalEntityOrder assigns each entity id a stable position in a
// continuous ordering, used to index a perceptual colormap so the same
// entity always gets the same color across every Matrix it appears in
// (spec.md §4.7: "Entity symbols are colored from a continuous perceptual
// colormap indexed by global entity order").
func GlobalEntityOrder(matrices []*Matrix) map[string]int {
	order := map[string]int{}
	next := 0
	for _, m := range matrices {
		for _, e := range m.LeftHeader {
			if _, seen := order[e]; !seen {
				order[e] = next
				next++
			}
		}
		for _, e := range m.RightHeader {
			if _, seen := order[e]; !seen {
				order[e] = next
				next++
			}
		}
	}
	return order
}

// PlaceMatrix computes absolute positions for every occupied cell of m,
// marking right-side cells whose entity is not in m.RightHeader (the
// entities generated by the adjacent earlier layer) as CellBar (spec.md's
// "special" dependency
// rendering). entityOrder supplies ColorIdx for perceptual-colormap lookup.
func PlaceMatrix(m *Matrix, entityOrder map[string]int) Placement {
	rows := len(m.LeftHeader)
	if len(m.RightHeader) > rows {
		rows = len(m.RightHeader)
	}
	cols := len(m.Elements)

	var cells []Cell
	leftX := 0.0
	rightX := leftX + float64(cols)*(CellSize+CellPadding) + CellSize
	rightOfRightX := rightX + float64(cols)*(CellSize+CellPadding)

	for pos, label := range m.Left {
		row, col := pos[0], pos[1]
		cells = append(cells, Cell{
			Row: row, Col: col,
			X: leftX + float64(col)*(CellSize+CellPadding),
			Y: float64(row) * (CellSize + CellPadding),
			Kind:     CellPlain,
			ColorIdx: entityOrder[label],
			Label:    label,
			Rotated:  true,
		})
	}

	rightEntities := toSet(m.RightHeader)
	for pos, label := range m.Right {
		row, col := pos[0], pos[1]
		kind := CellPlain
		if !rightEntities[label] {
			kind = CellBar
		}
		cells = append(cells, Cell{
			Row: row, Col: col,
			X: rightX + float64(col)*(CellSize+CellPadding),
			Y: float64(row) * (CellSize + CellPadding),
			Kind:     kind,
			ColorIdx: entityOrder[label],
			Label:    label,
			Rotated:  true,
		})
	}

	for col, label := range m.Elements {
		cells = append(cells, Cell{
			Row: rows, Col: col,
			X:    leftX + float64(col)*(CellSize+CellPadding),
			Y:    float64(rows) * (CellSize + CellPadding),
			Kind: CellActivity,
			Label: label,
		})
	}

	return Placement{
		Cells:  cells,
		Width:  rightOfRightX,
		Height: float64(rows+1) * (CellSize + CellPadding),
	}
}

// PlaceAgents lays out one agent-association cell, at the caller-supplied
// y, for each activity in activities that has an entry in act2AgentLabel
// (spec.md: "agent association cells are black"); the cell carries that
// activity's resolved associated-agent label (act2ag_trans in the original).
func PlaceAgents(activities []string, act2AgentLabel map[string]string, y float64) []Cell {
	var cells []Cell
	for col, act := range activities {
		agentLabel, ok := act2AgentLabel[act]
		if !ok {
			continue
		}
		cells = append(cells, Cell{
			Row: -1, Col: col,
			X: float64(col) * (CellSize + CellPadding),
			Y: y,
			Kind:  CellAgent,
			Label: agentLabel,
		})
	}
	return cells
}
