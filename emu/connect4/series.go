/*
 * tinyvm - Game series runner and result records.
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
	"log/slog"
	"strings"

	"github.com/BenWiederhake/tinyvm/emu/segment"
)

// Default per-move step budget.
const DefaultMaxSteps uint64 = 30000

// Sample count for non-deterministic matchups.
const seriesSamples = 1000

// Record is one game as printed in the JSON output.
type Record struct {
	Moves  string       `json:"moves"`
	Result ResultRecord `json:"res"`
	Times  [2]uint64    `json:"times"`
}

// ResultRecord renders a GameResult: {"type":"draw"} or
// {"type":"win","by":1,"reason":"..."}.
type ResultRecord struct {
	Type   string `json:"type"`
	By     int    `json:"by,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func recordOf(game *Game, result GameResult) Record {
	var moves strings.Builder
	for _, column := range game.MoveOrder() {
		fmt.Fprintf(&moves, "%d", column)
	}
	record := Record{
		Moves: moves.String(),
		Times: [2]uint64{game.PlayerOne().TotalInsns(), game.PlayerTwo().TotalInsns()},
	}
	if result.Draw {
		record.Result = ResultRecord{Type: "draw"}
	} else {
		record.Result = ResultRecord{
			Type:   "win",
			By:     int(result.Winner),
			Reason: result.Reason.String(),
		}
	}
	return record
}

// RunSeries plays the matchup to completion. A deterministic first game
// settles the matter and yields a single record; otherwise exactly 1000
// games are played to sample the outcome distribution. A matchup that was
// non-deterministic once must stay that way, anything else means the players
// misbehave in a way the sampling cannot represent.
func RunSeries(instructionsOne, instructionsTwo *segment.Segment, maxSteps uint64, width, height int) ([]Record, error) {
	first, err := NewCustomGame(instructionsOne, instructionsTwo, maxSteps, width, height)
	if err != nil {
		return nil, err
	}
	result := first.Conclude()
	records := []Record{recordOf(first, result)}
	if first.WasDeterministicSoFar() {
		return records, nil
	}
	slog.Debug(fmt.Sprintf("first game was non-deterministic, sampling %d games", seriesSamples))
	for len(records) < seriesSamples {
		game, err := NewCustomGame(instructionsOne, instructionsTwo, maxSteps, width, height)
		if err != nil {
			return nil, err
		}
		result := game.Conclude()
		if game.WasDeterministicSoFar() {
			return records, fmt.Errorf("game %d was deterministic although game 1 was not", len(records)+1)
		}
		records = append(records, recordOf(game, result))
	}
	return records, nil
}
