/*
 * tinyvm - Per-player machine and move bookkeeping.
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
	"github.com/BenWiederhake/tinyvm/emu/segment"
	"github.com/BenWiederhake/tinyvm/emu/vm"
)

/*
   Data segment layout served to a player before each move:

     0x0000..0x0003   step budget for this move, most significant word first
     0x0004..         the board, one word per slot, column-major
     0xFFFE           layout minor version
     0xFFFF           layout major version (written once at construction)

   Registers before each move:

     r0   opponent's last move, 0xFFFF if there is none
     r1   board width
     r2   board height
     r3   zero

   The player's machine persists across moves: registers, memory and the
   program counter carry over from yield to yield, so a program can keep its
   own state between turns.
*/

const (
	GameVersionMajor uint16 = 0x0001
	GameVersionMinor uint16 = 0x0001

	// First board word in the data segment.
	BoardBase uint16 = 0x0004

	addrVersionMinor uint16 = 0xFFFE
	addrVersionMajor uint16 = 0xFFFF

	// Marks "no move yet" in lastMove and register 0.
	NoMove uint16 = 0xFFFF
)

type AnswerKind int

const (
	// The program yielded a column choice.
	AnswerColumn AnswerKind = iota
	// The program died on an unassigned encoding.
	AnswerIllegalInstruction
	// The program spent the whole step budget without yielding.
	AnswerTimeout
)

// AlgorithmResult is one move decision as the game sees it. Column and
// Deterministic are valid for AnswerColumn, Raw for AnswerIllegalInstruction.
type AlgorithmResult struct {
	Kind          AnswerKind
	Column        uint16
	Deterministic bool
	Raw           uint16
}

// PlayerData owns one machine plus the bookkeeping the game reports on.
type PlayerData struct {
	machine    *vm.VirtualMachine
	lastMove   uint16
	totalMoves uint16
	totalInsns uint64
}

func NewPlayerData(instructions *segment.Segment) *PlayerData {
	data := segment.NewZeroed()
	data[addrVersionMajor] = GameVersionMajor
	return &PlayerData{
		machine:  vm.New(instructions, data),
		lastMove: NoMove,
	}
}

func (p *PlayerData) LastMove() uint16 {
	return p.lastMove
}

func (p *PlayerData) TotalMoves() uint16 {
	return p.totalMoves
}

// TotalInsns is the number of machine steps consumed across all turns.
func (p *PlayerData) TotalInsns() uint64 {
	return p.totalInsns
}

// updateData refreshes the board encoding and move metadata in the player's
// data segment and registers, per the layout above.
func (p *PlayerData) updateData(ownIdentity Player, maxSteps uint64, board *Board, other *PlayerData) {
	data := p.machine.Data()
	board.EncodeOnto(ownIdentity, data)
	data[0x0000] = uint16(maxSteps >> 48)
	data[0x0001] = uint16(maxSteps >> 32)
	data[0x0002] = uint16(maxSteps >> 16)
	data[0x0003] = uint16(maxSteps)
	data[addrVersionMinor] = GameVersionMinor
	p.machine.SetRegister(0, other.lastMove)
	p.machine.SetRegister(1, uint16(board.Width()))
	p.machine.SetRegister(2, uint16(board.Height()))
	p.machine.SetRegister(3, 0)
}

// determineAnswer steps the machine up to maxSteps times and classifies the
// outcome. Continue and debug-dump are transparent. Steps actually executed
// are charged to totalInsns; an illegal attempt itself costs nothing, a
// timeout charges the full budget.
func (p *PlayerData) determineAnswer(maxSteps uint64) AlgorithmResult {
	for step := uint64(0); step < maxSteps; step++ {
		result := p.machine.Step()
		switch result.Kind {
		case vm.Continue, vm.DebugDump:
		case vm.IllegalInstruction:
			p.totalInsns += step
			return AlgorithmResult{Kind: AnswerIllegalInstruction, Raw: result.Value}
		case vm.Yield:
			p.lastMove = result.Value
			p.totalMoves++
			p.totalInsns += step + 1
			return AlgorithmResult{
				Kind:          AnswerColumn,
				Column:        result.Value,
				Deterministic: p.machine.WasDeterministicSoFar(),
			}
		}
	}
	p.totalInsns += maxSteps
	return AlgorithmResult{Kind: AnswerTimeout}
}
