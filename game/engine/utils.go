package engine

// StartingBoard returns the initial layout: A on row 0, B on row 4
func StartingBoard() Board {
	var b Board
	row := []Kind{Pawn, StraightHero, DiagonalHero, Pawn, StraightHero}
	for col, kind := range row {
		b[0][col] = &Piece{Owner: PlayerA, Kind: kind}
		b[BoardSize-1][col] = &Piece{Owner: PlayerB, Kind: kind}
	}
	return b
}

// At returns the piece at pos, reporting false for empty or out of range cells
func (b Board) At(pos Position) (Piece, bool) {
	if !pos.InBounds() {
		return Piece{}, false
	}
	cell := b[pos.Row][pos.Col]
	if cell == nil {
		return Piece{}, false
	}
	return *cell, true
}

// Count returns the number of pieces owned by p
func (b Board) Count(p Player) int {
	count := 0
	for _, row := range b {
		for _, cell := range row {
			if cell != nil && cell.Owner == p {
				count++
			}
		}
	}
	return count
}

// tags renders the board as piece tags, "" for empty cells
func (b Board) tags() [BoardSize][BoardSize]string {
	var out [BoardSize][BoardSize]string
	for r, row := range b {
		for c, cell := range row {
			if cell != nil {
				out[r][c] = cell.Tag()
			}
		}
	}
	return out
}

func (b Board) clone() Board {
	var out Board
	for r, row := range b {
		for c, cell := range row {
			if cell != nil {
				piece := *cell
				out[r][c] = &piece
			}
		}
	}
	return out
}
