package connect4

import (
	"testing"

	"github.com/BenWiederhake/tinyvm/emu/segment"
)

func placeSuccess(t *testing.T, board *Board, column uint16, player Player) {
	t.Helper()
	if result := board.PlaceIntoUnsanitizedColumn(column, player); result != PlacementSuccess {
		t.Fatalf("Placement into column %d failed: %v", column, result)
	}
}

func TestDefaultBoard(t *testing.T) {
	board := DefaultBoard()
	if board.Width() != DefaultWidth {
		t.Errorf("Wrong width got: %d expected: %d", board.Width(), DefaultWidth)
	}
	if board.Height() != DefaultHeight {
		t.Errorf("Wrong height got: %d expected: %d", board.Height(), DefaultHeight)
	}
}

func TestBoardDimensions(t *testing.T) {
	for _, c := range []struct{ w, h int }{{3, 6}, {7, 3}, {0x100, 6}, {7, 0x100}, {0, 0}} {
		if _, err := NewBoard(c.w, c.h); err == nil {
			t.Errorf("Dimensions %dx%d were accepted", c.w, c.h)
		}
	}
	for _, c := range []struct{ w, h int }{{4, 4}, {7, 6}, {0xFF, 0xFF}} {
		if _, err := NewBoard(c.w, c.h); err != nil {
			t.Errorf("Dimensions %dx%d were rejected: %v", c.w, c.h, err)
		}
	}
}

func TestIndexOrder(t *testing.T) {
	board := DefaultBoard()
	cases := []struct{ x, y, want int }{
		{0, 0, 0},
		{1, 0, DefaultHeight},
		{0, 1, 1},
		{0, DefaultHeight - 1, DefaultHeight - 1},
		{1, DefaultHeight - 1, 2*DefaultHeight - 1},
		{2, 0, 2 * DefaultHeight},
	}
	for _, c := range cases {
		if got := board.index(c.x, c.y); got != c.want {
			t.Errorf("Wrong index for (%d, %d) got: %d expected: %d", c.x, c.y, got, c.want)
		}
	}
}

func TestEncodingEmpty(t *testing.T) {
	actual := segment.NewZeroed()
	DefaultBoard().EncodeOnto(PlayerOne, actual)
	if !actual.Equal(segment.NewZeroed()) {
		t.Error("Empty board encoded to a non-zero segment")
	}
}

func TestEncodingSimple(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 1, PlayerOne)

	expect := segment.NewZeroed()
	actual := segment.NewZeroed()

	expect[BoardBase+6] = 1
	board.EncodeOnto(PlayerOne, actual)
	if !actual.Equal(expect) {
		t.Errorf("Wrong encoding for player one:\n%v", actual)
	}

	expect[BoardBase+6] = 2
	board.EncodeOnto(PlayerTwo, actual)
	if !actual.Equal(expect) {
		t.Errorf("Wrong encoding for player two:\n%v", actual)
	}
}

func TestEncodingMore(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 4, PlayerTwo)
	placeSuccess(t, board, 4, PlayerOne)

	expect := segment.NewZeroed()
	actual := segment.NewZeroed()

	expect[BoardBase+18] = 1
	expect[BoardBase+24] = 2
	expect[BoardBase+25] = 1
	board.EncodeOnto(PlayerOne, actual)
	if !actual.Equal(expect) {
		t.Errorf("Wrong encoding for player one:\n%v", actual)
	}

	expect[BoardBase+18] = 2
	expect[BoardBase+24] = 1
	expect[BoardBase+25] = 2
	board.EncodeOnto(PlayerTwo, actual)
	if !actual.Equal(expect) {
		t.Errorf("Wrong encoding for player two:\n%v", actual)
	}
}

func TestRefuseFull(t *testing.T) {
	board := DefaultBoard()
	for i := 0; i < 3; i++ {
		placeSuccess(t, board, 0, PlayerOne)
		placeSuccess(t, board, 0, PlayerTwo)
	}
	if result := board.PlaceIntoUnsanitizedColumn(0, PlayerOne); result != PlacementColumnFull {
		t.Errorf("Wrong result got: %v expected: PlacementColumnFull", result)
	}
}

func TestRefuseInvalid(t *testing.T) {
	board := DefaultBoard()
	for _, column := range []uint16{7, 8, 9999, 0xFFFF} {
		if result := board.PlaceIntoUnsanitizedColumn(column, PlayerOne); result != PlacementInvalidColumn {
			t.Errorf("Column %d: got: %v expected: PlacementInvalidColumn", column, result)
		}
	}
}

func TestColumnStaysContiguous(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 2, PlayerOne)
	placeSuccess(t, board, 2, PlayerTwo)
	placeSuccess(t, board, 2, PlayerTwo)
	// Bottom-anchored prefix of tokens, empty above.
	for y, want := range []SlotState{SlotState(PlayerOne), SlotState(PlayerTwo), SlotState(PlayerTwo), SlotEmpty, SlotEmpty, SlotEmpty} {
		if got := board.Slot(2, y); got != want {
			t.Errorf("Wrong slot (2, %d) got: %d expected: %d", y, got, want)
		}
	}
}

func TestFullBoard(t *testing.T) {
	board := DefaultBoard()
	fillColumn := func(column uint16, startingWith Player) {
		for i := 0; i < 3; i++ {
			if board.IsFull() {
				t.Fatal("Board full too early")
			}
			placeSuccess(t, board, column, startingWith)
			placeSuccess(t, board, column, startingWith.Other())
		}
	}
	fillColumn(0, PlayerOne)
	fillColumn(1, PlayerOne)
	fillColumn(2, PlayerOne)
	// The middle column starts with the opposite player, guaranteeing a draw.
	fillColumn(3, PlayerTwo)
	fillColumn(4, PlayerOne)
	fillColumn(5, PlayerOne)
	fillColumn(6, PlayerOne)
	if !board.IsFull() {
		t.Error("Filled board does not report full")
	}
}

func TestConnect4HorizontalNegative(t *testing.T) {
	board := DefaultBoard()
	for _, column := range []uint16{0, 1, 2, 6, 5, 4} {
		placeSuccess(t, board, column, PlayerTwo)
	}
	// Player one plugs the gap; three-and-three around it do not join up.
	placeSuccess(t, board, 3, PlayerOne)
}

func TestConnect4HorizontalPositive(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 2, PlayerTwo)
	placeSuccess(t, board, 4, PlayerTwo)
	if result := board.PlaceIntoUnsanitizedColumn(3, PlayerTwo); result != PlacementConnect4 {
		t.Errorf("Wrong result got: %v expected: PlacementConnect4", result)
	}
}

func TestConnect4VerticalPositive(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 1, PlayerOne)
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerTwo)
	if result := board.PlaceIntoUnsanitizedColumn(1, PlayerTwo); result != PlacementConnect4 {
		t.Errorf("Wrong result got: %v expected: PlacementConnect4", result)
	}
}

func TestConnect4VerticalNegative(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerOne)
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerTwo)
	placeSuccess(t, board, 1, PlayerTwo)
	if result := board.PlaceIntoUnsanitizedColumn(1, PlayerTwo); result != PlacementColumnFull {
		t.Errorf("Wrong result got: %v expected: PlacementColumnFull", result)
	}
}

func TestConnect4Diag1Positive(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 2, PlayerOne)
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 4, PlayerOne)
	placeSuccess(t, board, 4, PlayerOne)
	placeSuccess(t, board, 4, PlayerOne)
	placeSuccess(t, board, 2, PlayerTwo)
	placeSuccess(t, board, 4, PlayerTwo)
	placeSuccess(t, board, 3, PlayerTwo)
	if result := board.PlaceIntoUnsanitizedColumn(1, PlayerTwo); result != PlacementConnect4 {
		t.Errorf("Wrong result got: %v expected: PlacementConnect4", result)
	}
}

func TestConnect4Diag2Positive(t *testing.T) {
	board := DefaultBoard()
	placeSuccess(t, board, 5, PlayerOne)
	placeSuccess(t, board, 4, PlayerOne)
	placeSuccess(t, board, 4, PlayerOne)
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 3, PlayerOne)
	placeSuccess(t, board, 3, PlayerTwo)
	placeSuccess(t, board, 4, PlayerTwo)
	placeSuccess(t, board, 5, PlayerTwo)
	if result := board.PlaceIntoUnsanitizedColumn(6, PlayerTwo); result != PlacementConnect4 {
		t.Errorf("Wrong result got: %v expected: PlacementConnect4", result)
	}
}
