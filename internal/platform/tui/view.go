package tui

import (
	"fmt"
	"unicode/utf8"

	"github.com/vovakirdan/tui-battleship/internal/core"
	"github.com/vovakirdan/tui-battleship/internal/games/battleship"
)

// Board panel geometry. Each cell is three characters wide so the cursor
// brackets fit around the glyph.
const (
	cellWidth   = 3
	labelWidth  = 3 // Row number column
	panelGap    = 4 // Space between side-by-side boards
	headerLines = 2 // Game title and a blank line
	footerLines = 3 // Blank line, stats, fleet status
)

// Cell glyphs.
const (
	glyphWater = '·'
	glyphShip  = '■'
	glyphHit   = 'X'
	glyphMiss  = '•'
)

// GameView is everything needed to draw one frame of the game screen.
type GameView struct {
	Snapshot         battleship.Snapshot
	Cursor           int // Target cell on the computer's board
	LastComputerShot int // Cell of the user's board last fired at, -1 if none
}

// layout positions the two board panels for a given terminal width.
type layout struct {
	width, height int
	enemy, own    core.Rect // Panel areas including title and labels
	stacked       bool      // Boards drawn one above the other
}

// panelSize returns the size of one board panel: a title line, a column
// header line and the boxed grid with row labels.
func panelSize(boardWidth int) (w, h int) {
	return labelWidth + cellWidth*boardWidth + 2, boardWidth + 4
}

// newLayout places the boards side by side when they fit in maxWidth,
// otherwise stacks them vertically.
func newLayout(boardWidth, maxWidth int) layout {
	pw, ph := panelSize(boardWidth)
	top := headerLines

	l := layout{}
	if 2*pw+panelGap <= maxWidth {
		l.width = 2*pw + panelGap
		l.height = top + ph + footerLines
		l.enemy = core.NewRect(0, top, pw, ph)
		l.own = core.NewRect(pw+panelGap, top, pw, ph)
		return l
	}

	l.stacked = true
	l.width = pw
	l.height = top + 2*ph + 1 + footerLines
	l.enemy = core.NewRect(0, top, pw, ph)
	l.own = core.NewRect(0, top+ph+1, pw, ph)
	return l
}

// CellName returns the chess-style name of a cell, e.g. "B4".
func CellName(idx, boardWidth int) string {
	if boardWidth <= 0 || idx < 0 || idx >= boardWidth*boardWidth {
		return "??"
	}
	return fmt.Sprintf("%c%d", 'A'+rune(idx%boardWidth), idx/boardWidth+1)
}

// cellGlyph picks the rune and color of a board cell. Unhit ships are drawn
// only when reveal is set.
func cellGlyph(c battleship.Cell, reveal bool, shipColor core.Color) (rune, core.Color) {
	switch {
	case c.Hit():
		return glyphHit, core.ColorBrightRed
	case c.Miss():
		return glyphMiss, core.ColorGray
	case c.Taken && reveal:
		return glyphShip, shipColor
	default:
		return glyphWater, core.ColorBlue
	}
}

// boardStyle controls how drawBoard decorates a board.
type boardStyle struct {
	title      string
	titleColor core.Color
	reveal     bool
	shipColor  core.Color
	marker     int // Cell to bracket, -1 for none
	markerOpen rune
	markerEnd  rune
	markerTint core.Color
}

// drawBoard renders one board panel into area.
func drawBoard(dst *core.Screen, area core.Rect, cells []battleship.Cell, width int, st boardStyle) {
	dst.DrawTextColor(area.X+labelWidth, area.Y, st.title, st.titleColor)

	box := core.NewRect(area.X+labelWidth, area.Y+2, cellWidth*width+2, width+2)
	grid := box.Inner()
	for col := 0; col < width; col++ {
		dst.SetColor(grid.X+col*cellWidth+1, area.Y+1, 'A'+rune(col), core.ColorGray)
	}

	dst.DrawBox(box, core.ColorGray)

	for row := 0; row < width; row++ {
		y := grid.Y + row
		dst.DrawTextColor(area.X, y, fmt.Sprintf("%2d", row+1), core.ColorGray)

		for col := 0; col < width; col++ {
			idx := row*width + col
			if idx >= len(cells) {
				continue
			}
			x := grid.X + col*cellWidth
			if !grid.Contains(x, y) {
				continue
			}
			r, c := cellGlyph(cells[idx], st.reveal, st.shipColor)
			dst.SetColor(x+1, y, r, c)

			if idx == st.marker {
				dst.SetColor(x, y, st.markerOpen, st.markerTint)
				dst.SetColor(x+2, y, st.markerEnd, st.markerTint)
			}
		}
	}
}

// DrawGame renders both boards and the fleet status into dst, resizing it to
// fit the layout chosen for maxWidth.
func DrawGame(dst *core.Screen, v GameView, maxWidth int) {
	snap := v.Snapshot
	width := snap.Width
	l := newLayout(width, maxWidth)

	st := snap.State
	statsLine := fmt.Sprintf("Shots %d  Hits %d  Accuracy %.0f%%  Orientation %s",
		st.User.Shots, st.User.Hits, st.User.Accuracy()*100, st.Orientation)
	enemyLeft := snap.ShipsRemaining(battleship.SideComputer)
	ownLeft := snap.ShipsRemaining(battleship.SideUser)
	fleetLine := fmt.Sprintf("Enemy cells afloat %d  Your cells afloat %d", enemyLeft, ownLeft)

	// Footer lines may be wider than small boards
	w := core.Max(l.width, core.Max(utf8.RuneCountInString(statsLine), utf8.RuneCountInString(fleetLine)))
	dst.Resize(w, l.height)
	dst.Clear()
	dst.DrawTextCentered(0, "B A T T L E S H I P", core.ColorBrightWhite)

	over := snap.State.Phase == battleship.PhaseGameOver
	cursor := v.Cursor
	if over || snap.State.Phase == battleship.PhaseIdle {
		cursor = -1
	}

	enemyTitle := "ENEMY WATERS"
	enemyColor := core.ColorBrightCyan
	if snap.State.Phase == battleship.PhaseUserTurn {
		enemyColor = core.ColorBrightYellow
	}
	drawBoard(dst, l.enemy, snap.Computer, width, boardStyle{
		title:      enemyTitle,
		titleColor: enemyColor,
		reveal:     over,
		shipColor:  core.ColorYellow,
		marker:     cursor,
		markerOpen: '[',
		markerEnd:  ']',
		markerTint: core.ColorBrightYellow,
	})

	ownColor := core.ColorBrightCyan
	if snap.State.Phase == battleship.PhaseComputerTurn {
		ownColor = core.ColorBrightYellow
	}
	drawBoard(dst, l.own, snap.User, width, boardStyle{
		title:      "YOUR FLEET",
		titleColor: ownColor,
		reveal:     true,
		shipColor:  core.ColorCyan,
		marker:     v.LastComputerShot,
		markerOpen: '(',
		markerEnd:  ')',
		markerTint: core.ColorYellow,
	})

	y := l.height - footerLines + 1
	dst.DrawTextColor(0, y, statsLine, core.ColorWhite)

	fleetColor := core.ColorGreen
	if ownLeft < enemyLeft {
		fleetColor = core.ColorRed
	}
	dst.DrawTextColor(0, y+1, fleetLine, fleetColor)
}
