package engine

// displacements lists every (row, col) offset each kind may move by
var displacements = map[Kind][]Position{
	Pawn: {
		{Row: -1, Col: 0}, {Row: 1, Col: 0}, {Row: 0, Col: -1}, {Row: 0, Col: 1},
	},
	StraightHero: {
		{Row: -2, Col: 0}, {Row: 2, Col: 0}, {Row: 0, Col: -2}, {Row: 0, Col: 2},
	},
	DiagonalHero: {
		{Row: -2, Col: -2}, {Row: -2, Col: 2}, {Row: 2, Col: -2}, {Row: 2, Col: 2},
	},
}

// checkShape validates the displacement for a piece kind. Paths are never
// blocked; only the offset matters.
func checkShape(kind Kind, from, to Position) error {
	dr, dc := abs(to.Row-from.Row), abs(to.Col-from.Col)

	var ok bool
	switch kind {
	case Pawn:
		ok = (dr == 1 && dc == 0) || (dr == 0 && dc == 1)
	case StraightHero:
		ok = (dr == 2 && dc == 0) || (dr == 0 && dc == 2)
	case DiagonalHero:
		ok = dr == 2 && dc == 2
	}
	if !ok {
		return ErrIllegalShape
	}
	return nil
}

// pathBetween returns the cells strictly between from and to along a
// horizontal, vertical or diagonal line. Any other pair yields nothing.
func pathBetween(from, to Position) []Position {
	dr, dc := sign(to.Row-from.Row), sign(to.Col-from.Col)
	if dr != 0 && dc != 0 && abs(to.Row-from.Row) != abs(to.Col-from.Col) {
		return nil
	}

	var path []Position
	pos := Position{Row: from.Row + dr, Col: from.Col + dc}
	for pos != to {
		path = append(path, pos)
		pos = Position{Row: pos.Row + dr, Col: pos.Col + dc}
	}
	return path
}

// execute captures opponent pieces along the path, then relocates the piece.
// Whatever stood on the destination is overwritten.
func (b *Board) execute(piece Piece, from, to Position) {
	opponent := piece.Owner.Opponent()
	for _, pos := range pathBetween(from, to) {
		if occupant, ok := b.At(pos); ok && occupant.Owner == opponent {
			b[pos.Row][pos.Col] = nil
		}
	}

	moved := piece
	b[to.Row][to.Col] = &moved
	b[from.Row][from.Col] = nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
