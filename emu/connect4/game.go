/*
 * tinyvm - Connect-4 game state machine.
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

type WinReasonKind int

const (
	ReasonConnect4 WinReasonKind = iota
	ReasonTimeout
	ReasonIllegalInstruction
	ReasonIllegalColumn
	ReasonFullColumn
)

// WinReason is why a game was won. Arg carries the raw instruction word or
// the offending column, depending on Kind.
type WinReason struct {
	Kind WinReasonKind
	Arg  uint16
}

func (r WinReason) String() string {
	switch r.Kind {
	case ReasonConnect4:
		return "connect 4"
	case ReasonTimeout:
		return "timeout"
	case ReasonIllegalInstruction:
		return fmt.Sprintf("illegal instruction 0x%04x", r.Arg)
	case ReasonIllegalColumn:
		return fmt.Sprintf("illegal column %d", r.Arg)
	case ReasonFullColumn:
		return fmt.Sprintf("full column %d", r.Arg)
	}
	return fmt.Sprintf("win reason %d", int(r.Kind))
}

// GameResult is a draw, or a win with its reason.
type GameResult struct {
	Draw   bool
	Winner Player
	Reason WinReason
}

// GameState is either Running or Ended.
type GameState interface {
	gameState()
}

// Running names the player to move next.
type Running struct {
	Next Player
}

// Ended wraps the final result.
type Ended struct {
	Result GameResult
}

func (Running) gameState() {}
func (Ended) gameState()   {}

// Game drives two player machines against each other on one board.
type Game struct {
	playerOne          *PlayerData
	playerTwo          *PlayerData
	board              *Board
	state              GameState
	maxSteps           uint64
	deterministicSoFar bool
	moveOrder          []uint8
}

func NewGame(instructionsOne, instructionsTwo *segment.Segment, maxSteps uint64) *Game {
	return newGame(instructionsOne, instructionsTwo, maxSteps, DefaultBoard())
}

// NewCustomGame plays on a non-default board size.
func NewCustomGame(instructionsOne, instructionsTwo *segment.Segment, maxSteps uint64, width, height int) (*Game, error) {
	board, err := NewBoard(width, height)
	if err != nil {
		return nil, err
	}
	return newGame(instructionsOne, instructionsTwo, maxSteps, board), nil
}

func newGame(instructionsOne, instructionsTwo *segment.Segment, maxSteps uint64, board *Board) *Game {
	return &Game{
		playerOne:          NewPlayerData(instructionsOne),
		playerTwo:          NewPlayerData(instructionsTwo),
		board:              board,
		state:              Running{Next: PlayerOne},
		maxSteps:           maxSteps,
		deterministicSoFar: true,
		moveOrder:          make([]uint8, 0, board.Width()*board.Height()),
	}
}

// DoMove runs one turn. Once the game has ended this is a no-op, so calling
// it again is always safe.
func (g *Game) DoMove() {
	running, ok := g.state.(Running)
	if !ok {
		return
	}
	movingPlayer := running.Next
	moving, other := g.playerOne, g.playerTwo
	if movingPlayer == PlayerTwo {
		moving, other = g.playerTwo, g.playerOne
	}

	moving.updateData(movingPlayer, g.maxSteps, g.board, other)
	answer := moving.determineAnswer(g.maxSteps)

	var columnIndex uint16
	switch answer.Kind {
	case AnswerColumn:
		if !answer.Deterministic {
			g.deterministicSoFar = false
		}
		columnIndex = answer.Column
	case AnswerIllegalInstruction:
		// Loss by failure to produce a decision.
		g.state = Ended{Result: GameResult{
			Winner: movingPlayer.Other(),
			Reason: WinReason{Kind: ReasonIllegalInstruction, Arg: answer.Raw},
		}}
		return
	case AnswerTimeout:
		g.state = Ended{Result: GameResult{
			Winner: movingPlayer.Other(),
			Reason: WinReason{Kind: ReasonTimeout},
		}}
		return
	}

	switch g.board.PlaceIntoUnsanitizedColumn(columnIndex, movingPlayer) {
	case PlacementSuccess:
		g.moveOrder = append(g.moveOrder, uint8(columnIndex))
	case PlacementConnect4:
		g.moveOrder = append(g.moveOrder, uint8(columnIndex))
		g.state = Ended{Result: GameResult{
			Winner: movingPlayer,
			Reason: WinReason{Kind: ReasonConnect4},
		}}
		return
	case PlacementInvalidColumn:
		// Loss by invalid decision.
		g.state = Ended{Result: GameResult{
			Winner: movingPlayer.Other(),
			Reason: WinReason{Kind: ReasonIllegalColumn, Arg: columnIndex},
		}}
		return
	case PlacementColumnFull:
		g.state = Ended{Result: GameResult{
			Winner: movingPlayer.Other(),
			Reason: WinReason{Kind: ReasonFullColumn, Arg: columnIndex},
		}}
		return
	}

	if g.board.IsFull() {
		g.state = Ended{Result: GameResult{Draw: true}}
	} else {
		g.state = Running{Next: movingPlayer.Other()}
	}
}

// Conclude plays moves until the game ends and returns the result.
func (g *Game) Conclude() GameResult {
	for {
		if ended, ok := g.state.(Ended); ok {
			return ended.Result
		}
		g.DoMove()
	}
}

func (g *Game) State() GameState {
	return g.state
}

func (g *Game) Board() *Board {
	return g.board
}

func (g *Game) TotalMoves() uint16 {
	return g.playerOne.totalMoves + g.playerTwo.totalMoves
}

func (g *Game) PlayerOne() *PlayerData {
	return g.playerOne
}

func (g *Game) PlayerTwo() *PlayerData {
	return g.playerTwo
}

// WasDeterministicSoFar is false once any move involved the rnd instruction.
func (g *Game) WasDeterministicSoFar() bool {
	return g.deterministicSoFar
}

// MoveOrder lists the successfully placed columns, low byte each.
func (g *Game) MoveOrder() []uint8 {
	return g.moveOrder
}
