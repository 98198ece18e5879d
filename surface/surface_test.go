package surface

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"
)

func TestRectGeometry(t *testing.T) {
	r := NewRect(2, 3, 10, 4)
	require.Equal(t, 12, r.Right())
	require.Equal(t, 7, r.Bottom())
	require.Equal(t, 40, r.Area())
	require.True(t, r.Contains(2, 3))
	require.False(t, r.Contains(12, 3))

	require.Equal(t, Rect{X: 3, Y: 3, Width: 8, Height: 4}, r.Inner(Margin{Horizontal: 1}))
	require.True(t, r.Inner(Margin{Horizontal: 6}).Empty())
	require.Equal(t, Rect{X: 7, Y: 3, Width: 5, Height: 4}, r.ClipLeft(5))
	require.True(t, r.ClipLeft(20).Empty())
	require.Equal(t, Rect{X: 2, Y: 5, Width: 10, Height: 2}, r.ClipTop(2))
	require.Equal(t, 1, r.WithHeight(1).Height)
	require.True(t, NewRect(0, 0, -3, 2).Empty())
}

func TestRectUnionIntersect(t *testing.T) {
	a := NewRect(0, 0, 4, 1)
	b := NewRect(2, 1, 5, 1)
	require.Equal(t, Rect{X: 0, Y: 0, Width: 7, Height: 2}, a.Union(b))
	require.Equal(t, a, a.Union(Rect{X: 50, Y: 50}))
	require.Equal(t, a, Rect{}.Union(a))

	require.Equal(t, Rect{X: 1, Y: 0, Width: 3, Height: 1}, a.Intersect(NewRect(1, 0, 10, 10)))
	require.True(t, a.Intersect(NewRect(10, 10, 1, 1)).Empty())
}

func TestStylePatch(t *testing.T) {
	base := Style{Fg: "7", Bg: "0", Add: Bold}
	got := base.Patch(Style{Fg: "3", Sub: Bold, Add: Italic})
	require.Equal(t, Style{Fg: "3", Bg: "0", Add: Italic, Sub: Bold}, got)

	require.Equal(t, Style{Fg: "0", Bg: "7", Add: Bold}, base.Swapped())
	require.Equal(t, Style{Fg: "7", Bg: "0", Sub: Bold}, base.RemoveModifier(Bold))
	require.True(t, base.AddModifier(Reversed).Add.Contains(Bold|Reversed))
}

func TestBufferSetString(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 6, 2))
	end := buf.SetString(1, 0, "hello world", Style{Fg: "2"})
	require.Equal(t, 6, end)
	require.Equal(t, []string{" hello", "      "}, buf.Lines())
	require.Equal(t, Color("2"), buf.Cell(1, 0).Style.Fg)
	require.Equal(t, Color(""), buf.Cell(0, 0).Style.Fg)

	end = buf.SetStringN(0, 1, "abc", 2, Style{})
	require.Equal(t, 2, end)
	require.Equal(t, "ab    ", buf.Lines()[1])

	require.Equal(t, 3, buf.SetString(3, 5, "off", Style{}))
	require.Nil(t, buf.Cell(6, 0))
}

func TestBufferWideRunes(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 5, 1))
	end := buf.SetString(0, 0, "日本語", Style{})
	require.Equal(t, 4, end, "the third rune does not fit")
	require.Equal(t, "日", buf.Cell(0, 0).Symbol)
	require.Equal(t, "", buf.Cell(1, 0).Symbol)
	require.Equal(t, []string{"日本 "}, buf.Lines())
}

func TestBufferCombiningMark(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 4, 1))
	end := buf.SetString(0, 0, "éx", Style{})
	require.Equal(t, 2, end)
	require.Equal(t, "é", buf.Cell(0, 0).Symbol)
	require.Equal(t, "x", buf.Cell(1, 0).Symbol)
}

func TestBufferClearAndStyle(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 3, 2))
	buf.SetString(0, 0, "abc", Style{})
	buf.ClearWith(NewRect(1, 0, 5, 1), Style{Bg: "4"})
	require.Equal(t, []string{"a  ", "   "}, buf.Lines())
	require.Equal(t, Color("4"), buf.Cell(2, 0).Style.Bg)

	buf.SetStyle(NewRect(0, 1, 3, 1), Style{Add: Bold})
	require.True(t, buf.Cell(0, 1).Style.Add.Contains(Bold))
	require.False(t, buf.Cell(0, 0).Style.Add.Contains(Bold))
}

func TestBufferStringPlainWhenUnstyled(t *testing.T) {
	buf := NewBuffer(NewRect(0, 0, 3, 2))
	buf.SetString(0, 0, "ab", Style{})
	require.Equal(t, "ab \n   ", buf.String())
}

func TestBlockRender(t *testing.T) {
	tests := []struct {
		name  string
		block Block
		want  []string
	}{
		{
			name:  "plain",
			block: Block{Borders: BordersAll},
			want:  []string{"┌───┐", "│   │", "└───┘"},
		},
		{
			name:  "rounded with title",
			block: Block{Borders: BordersAll, BorderType: BorderRounded, Title: "Symbols"},
			want:  []string{"╭Sym╮", "│   │", "╰───╯"},
		},
		{
			name:  "top only",
			block: Block{Borders: BorderTop, BorderType: BorderDouble},
			want:  []string{"═════", "     ", "     "},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer(NewRect(0, 0, 5, 3))
			tt.block.Render(buf.Area(), buf)
			require.Equal(t, tt.want, buf.Lines())
		})
	}
}

func TestBlockInner(t *testing.T) {
	area := NewRect(0, 0, 10, 5)
	require.Equal(t, Rect{X: 1, Y: 1, Width: 8, Height: 3}, Block{Borders: BordersAll}.Inner(area))
	require.Equal(t, Rect{X: 0, Y: 1, Width: 10, Height: 4}, Block{Borders: BorderTop}.Inner(area))
	require.Equal(t, area, Block{}.Inner(area))
}

func TestParseBorderType(t *testing.T) {
	require.Equal(t, BorderRounded, ParseBorderType("rounded"))
	require.Equal(t, BorderThick, ParseBorderType("thick"))
	require.Equal(t, BorderPlain, ParseBorderType("nonsense"))
}

func TestTcellConversion(t *testing.T) {
	require.Equal(t, tcell.ColorDefault, TcellColor(""))
	require.Equal(t, tcell.PaletteColor(39), TcellColor("39"))
	require.Equal(t, tcell.ColorRed, TcellColor("red"))

	fg, bg, attrs := Style{Fg: "1", Add: Bold | Reversed}.Tcell().Decompose()
	require.Equal(t, tcell.PaletteColor(1), fg)
	require.Equal(t, tcell.ColorDefault, bg)
	require.NotZero(t, attrs&tcell.AttrBold)
	require.NotZero(t, attrs&tcell.AttrReverse)
}

func TestFlushToSimulationScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(4, 1)

	buf := NewBuffer(NewRect(0, 0, 4, 1))
	buf.SetString(0, 0, "ok", Style{Fg: "2"})
	buf.Flush(screen)
	screen.Show()

	cells, width, _ := screen.GetContents()
	require.Equal(t, 4, width)
	require.Equal(t, []rune{'o'}, cells[0].Runes)
	require.Equal(t, []rune{'k'}, cells[1].Runes)
}
