/*
 * tinyvm - Connect-4 board.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package connect4

import (
	"fmt"

	"github.com/BenWiederhake/tinyvm/emu/segment"
)

type Player uint8

const (
	PlayerOne Player = 1
	PlayerTwo Player = 2
)

func (p Player) Other() Player {
	if p == PlayerOne {
		return PlayerTwo
	}
	return PlayerOne
}

// SlotState is SlotEmpty or the Player owning the token. The numeric values
// double as the neutral board encoding.
type SlotState uint8

const SlotEmpty SlotState = 0

type PlacementResult int

const (
	PlacementSuccess PlacementResult = iota
	PlacementInvalidColumn
	PlacementColumnFull
	PlacementConnect4
)

const (
	DefaultWidth  = 7
	DefaultHeight = 6
)

// Board stores slots column-major: slot (x, y) lives at x*height + y, the
// same order the data segment encoding uses. Within each column the tokens
// form a contiguous run anchored at y=0.
type Board struct {
	slots  []SlotState
	width  int
	height int
}

// NewBoard rejects dimensions a Connect-4 game cannot be played on or that
// the word-sized data layout cannot describe.
func NewBoard(width, height int) (*Board, error) {
	if width <= 3 || width >= 0x100 || height <= 3 || height >= 0x100 {
		return nil, fmt.Errorf("silly board dimensions %dx%d", width, height)
	}
	return &Board{
		slots:  make([]SlotState, width*height),
		width:  width,
		height: height,
	}, nil
}

func DefaultBoard() *Board {
	board, err := NewBoard(DefaultWidth, DefaultHeight)
	if err != nil {
		panic(err)
	}
	return board
}

func (b *Board) index(x, y int) int {
	return x*b.height + y
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

func (b *Board) Slot(x, y int) SlotState {
	return b.slots[b.index(x, y)]
}

// countTowards counts tokens matching slot (x, y) along direction (dx, dy),
// not counting (x, y) itself.
func (b *Board) countTowards(x, y, dx, dy int) int {
	expect := b.Slot(x, y)
	streak := 0
	for i := 1; ; i++ {
		newX := x + i*dx
		newY := y + i*dy
		if newX < 0 || newY < 0 || newX >= b.width || newY >= b.height {
			break
		}
		if b.Slot(newX, newY) != expect {
			break
		}
		streak++
	}
	return streak
}

// haveConnect4 checks the four lines through (x, y) for a run of four.
func (b *Board) haveConnect4(x, y int) bool {
	for _, d := range [4][2]int{{1, -1}, {1, 0}, {1, 1}, {0, 1}} {
		toLeft := b.countTowards(x, y, -d[0], -d[1])
		toRight := b.countTowards(x, y, d[0], d[1])
		if toLeft+1+toRight >= 4 {
			return true
		}
	}
	return false
}

// PlaceIntoUnsanitizedColumn drops a token for player into the given column,
// which may be any word the guest produced.
func (b *Board) PlaceIntoUnsanitizedColumn(columnIndex uint16, player Player) PlacementResult {
	if int(columnIndex) >= b.width {
		return PlacementInvalidColumn
	}
	x := int(columnIndex)
	for y := 0; y < b.height; y++ {
		if b.slots[b.index(x, y)] != SlotEmpty {
			continue
		}
		b.slots[b.index(x, y)] = SlotState(player)
		if b.haveConnect4(x, y) {
			return PlacementConnect4
		}
		return PlacementSuccess
	}
	return PlacementColumnFull
}

// EncodeOnto writes the board into the data segment at BoardBase: 0 empty,
// 1 for currentPlayer's tokens, 2 for the opponent's.
func (b *Board) EncodeOnto(currentPlayer Player, seg *segment.Segment) {
	for i, slot := range b.slots {
		var value uint16
		switch {
		case slot == SlotEmpty:
			value = 0
		case slot == SlotState(currentPlayer):
			value = 1
		default:
			value = 2
		}
		seg[BoardBase+uint16(i)] = value
	}
}

// IsFull only inspects the top row; the rows below filled up first.
func (b *Board) IsFull() bool {
	for x := 0; x < b.width; x++ {
		if b.Slot(x, b.height-1) == SlotEmpty {
			return false
		}
	}
	return true
}
