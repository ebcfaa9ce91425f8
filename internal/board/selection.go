package board

// Selection tracks the focused card. CardID is preferred over Row so focus follows a card
// across reloads and moves.
type Selection struct {
	Col    int
	Row    int
	CardID int64
}

// Clamp fits sel onto b. Row is -1 when the lane is empty.
func (b Board) Clamp(sel Selection) Selection {
	if len(b.Columns) == 0 {
		return Selection{Row: -1}
	}
	if ci, ri, ok := b.Find(sel.CardID); ok && sel.CardID != 0 {
		sel.Col, sel.Row = ci, ri
	} else {
		sel.CardID = 0
	}
	if sel.Col < 0 {
		sel.Col = 0
	}
	if sel.Col >= len(b.Columns) {
		sel.Col = len(b.Columns) - 1
	}
	n := len(b.Columns[sel.Col].Cards)
	if n == 0 {
		sel.Row = -1
		return sel
	}
	if sel.Row < 0 {
		sel.Row = 0
	}
	if sel.Row >= n {
		sel.Row = n - 1
	}
	sel.CardID = b.Columns[sel.Col].Cards[sel.Row].ID
	return sel
}

// Selected returns the card under sel.
func (b Board) Selected(sel Selection) (CardView, bool) {
	sel = b.Clamp(sel)
	if len(b.Columns) == 0 || sel.Row < 0 {
		return CardView{}, false
	}
	return b.Columns[sel.Col].Cards[sel.Row], true
}

// MoveFocus shifts the selection by dc lanes and dr rows. Changing lane keeps the row index.
func (b Board) MoveFocus(sel Selection, dc, dr int) Selection {
	sel = b.Clamp(sel)
	sel.Col += dc
	sel.Row += dr
	sel.CardID = 0
	return b.Clamp(sel)
}
