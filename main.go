/*
 * tinyvm - Main process.
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

package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	getopt "github.com/pborman/getopt/v2"

	"github.com/BenWiederhake/tinyvm/command"
	config "github.com/BenWiederhake/tinyvm/config/configparser"
	"github.com/BenWiederhake/tinyvm/emu/connect4"
	"github.com/BenWiederhake/tinyvm/emu/segment"
	"github.com/BenWiederhake/tinyvm/emu/testdriver"
	"github.com/BenWiederhake/tinyvm/emu/vm"
	logger "github.com/BenWiederhake/tinyvm/util/logger"
)

// Runtime settings, from defaults, then the run-control file, then flags.
type settings struct {
	maxSteps    uint64
	totalBudget uint64
	width       int
	height      int
	logFile     string
}

func parseNumber(value string, bits int) (uint64, error) {
	return strconv.ParseUint(value, 0, bits)
}

func (s *settings) registerConfig() {
	config.Register("maxsteps", func(value string) error {
		number, err := parseNumber(value, 64)
		if err == nil {
			s.maxSteps = number
		}
		return err
	})
	config.Register("budget", func(value string) error {
		number, err := parseNumber(value, 64)
		if err == nil {
			s.totalBudget = number
		}
		return err
	})
	config.Register("width", func(value string) error {
		number, err := parseNumber(value, 16)
		if err == nil {
			s.width = int(number)
		}
		return err
	})
	config.Register("height", func(value string) error {
		number, err := parseNumber(value, 16)
		if err == nil {
			s.height = int(number)
		}
		return err
	})
	config.Register("logfile", func(value string) error {
		s.logFile = value
		return nil
	})
}

func loadSegments(paths []string) ([]*segment.Segment, error) {
	segments := make([]*segment.Segment, 0, len(paths))
	for _, path := range paths {
		seg, err := segment.LoadFile(path)
		if err != nil {
			return nil, err
		}
		segments = append(segments, seg)
	}
	return segments, nil
}

func runConnect4(segments []*segment.Segment, cfg *settings) int {
	records, err := connect4.RunSeries(segments[0], segments[1], cfg.maxSteps, cfg.width, cfg.height)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}
	encoded, err := json.Marshal(records)
	if err != nil {
		slog.Error(err.Error())
		return 1
	}
	fmt.Println(string(encoded))
	return 0
}

func runTestDriver(segments []*segment.Segment, cfg *settings) int {
	session := testdriver.New(segments[0], segments[1])
	result := session.Conclude(cfg.totalBudget)
	slog.Debug(fmt.Sprintf("session spent %d driver and %d testee instructions",
		session.DriverInsns(), session.TesteeInsns()))
	result.Render(os.Stdout)
	return result.ExitCode()
}

func runMonitor(segments []*segment.Segment) int {
	data := segment.NewZeroed()
	if len(segments) > 1 {
		data = segments[1]
	}
	machine := vm.New(segments[0], data)
	command.ConsoleReader(command.NewMonitor(machine))
	return 0
}

func main() {
	optMode := getopt.StringLong("mode", 'm', "connect4",
		"Execution environment: connect4, judge, test-driver, monitor")
	optSteps := getopt.StringLong("max-steps", 's', "", "Per-move step budget (connect4)")
	optBudget := getopt.StringLong("budget", 'b', "", "Total instruction budget (test-driver)")
	optConfig := getopt.StringLong("config", 'c', "", "Run-control file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Mirror debug records to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("segment-file...")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	cfg := settings{
		maxSteps:    connect4.DefaultMaxSteps,
		totalBudget: testdriver.DefaultTotalBudget,
		width:       connect4.DefaultWidth,
		height:      connect4.DefaultHeight,
	}
	cfg.registerConfig()
	if *optConfig != "" {
		if err := config.LoadFile(*optConfig); err != nil {
			fmt.Fprintln(os.Stderr, "bad run-control file: "+err.Error())
			os.Exit(2)
		}
	}
	// Flags win over the run-control file.
	if *optSteps != "" {
		number, err := parseNumber(*optSteps, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad --max-steps: "+err.Error())
			os.Exit(2)
		}
		cfg.maxSteps = number
	}
	if *optBudget != "" {
		number, err := parseNumber(*optBudget, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "bad --budget: "+err.Error())
			os.Exit(2)
		}
		cfg.totalBudget = number
	}
	if *optLogFile != "" {
		cfg.logFile = *optLogFile
	}

	var file *os.File
	if cfg.logFile != "" {
		var err error
		file, err = os.Create(cfg.logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, "cannot create log file: "+err.Error())
			os.Exit(2)
		}
	}
	slog.SetDefault(slog.New(logger.NewHandler(file, slog.LevelDebug, *optDebug)))

	args := getopt.Args()
	wrongUsage := func(message string) {
		fmt.Fprintln(os.Stderr, message)
		getopt.Usage()
		os.Exit(2)
	}

	var exitCode int
	switch *optMode {
	case "connect4":
		if len(args) != 2 {
			wrongUsage("connect4 mode needs exactly two segment files")
		}
		segments, err := loadSegments(args)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(2)
		}
		slog.Info("starting connect4 arena")
		exitCode = runConnect4(segments, &cfg)
	case "judge":
		if len(args) < 2 {
			wrongUsage("judge mode needs two or more segment files")
		}
		slog.Error("judge mode is reserved and not implemented yet")
		exitCode = 2
	case "test-driver":
		if len(args) != 2 {
			wrongUsage("test-driver mode needs a driver image and a testee image")
		}
		segments, err := loadSegments(args)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(2)
		}
		slog.Info("starting test driver")
		exitCode = runTestDriver(segments, &cfg)
	case "monitor":
		if len(args) < 1 || len(args) > 2 {
			wrongUsage("monitor mode needs an instruction image and optionally a data image")
		}
		segments, err := loadSegments(args)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(2)
		}
		exitCode = runMonitor(segments)
	default:
		wrongUsage("unknown mode " + strconv.Quote(*optMode))
	}
	os.Exit(exitCode)
}
