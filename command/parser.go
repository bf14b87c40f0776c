/*
 * tinyvm - Monitor command parser.
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

package command

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/BenWiederhake/tinyvm/emu/disassemble"
	"github.com/BenWiederhake/tinyvm/emu/segment"
	"github.com/BenWiederhake/tinyvm/emu/vm"
	hex "github.com/BenWiederhake/tinyvm/util/hex"
)

// Step limit for "run" when no limit is given, so a stuck image cannot
// wedge the monitor.
const defaultRunLimit = 1000000

// Monitor drives a single machine interactively.
type Monitor struct {
	machine     *vm.VirtualMachine
	out         io.Writer
	breakpoints []uint16
}

func NewMonitor(machine *vm.VirtualMachine) *Monitor {
	return &Monitor{machine: machine, out: os.Stdout}
}

// SetOutput redirects monitor output, mostly for tests.
func (m *Monitor) SetOutput(w io.Writer) {
	m.out = w
}

var commandNames = []string{
	"break", "data", "dis", "help", "insn", "quit", "regs", "reset", "run", "step",
}

// CompleteCmd offers completions for a partial command line.
func CompleteCmd(line string) []string {
	var matches []string
	for _, name := range commandNames {
		if strings.HasPrefix(name, strings.ToLower(line)) {
			matches = append(matches, name)
		}
	}
	return matches
}

// ProcessCommand executes one monitor command. It reports whether the
// monitor should quit.
func (m *Monitor) ProcessCommand(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	command, args := fields[0], fields[1:]
	switch command {
	case "q", "quit":
		return true, nil
	case "h", "help":
		m.printHelp()
	case "s", "step":
		return false, m.stepCommand(args)
	case "run":
		return false, m.runCommand(args)
	case "p", "regs":
		m.printState()
	case "d", "data":
		return false, m.dumpCommand(args, m.machine.Data())
	case "i", "insn":
		return false, m.dumpCommand(args, m.machine.Instructions())
	case "dis":
		return false, m.disCommand(args)
	case "br", "break":
		return false, m.breakCommand(args)
	case "reset":
		m.machine.Reset()
		m.printState()
	default:
		return false, fmt.Errorf("unknown command %q", command)
	}
	return false, nil
}

func (m *Monitor) printHelp() {
	fmt.Fprint(m.out, `step [n]        execute n instructions (default 1)
run [limit]     execute until yield, illegal instruction or breakpoint
regs            print registers, PC and time
data <a> [n]    print data words
insn <a> [n]    print instruction words
dis [a] [n]     disassemble instruction words (default: at PC)
break [a]       toggle a breakpoint, or list them
reset           zero data segment, registers and PC
quit            leave the monitor
`)
}

func (m *Monitor) printState() {
	var str strings.Builder
	str.WriteString("PC: ")
	hex.FormatWord(&str, m.machine.ProgramCounter())
	str.WriteString("  time: ")
	hex.FormatLong(&str, m.machine.Time())
	str.WriteString("\nregs:")
	registers := m.machine.Registers()
	for i, value := range registers {
		str.WriteByte(' ')
		hex.FormatWord(&str, value)
		if i == 7 {
			str.WriteString("   ")
		}
	}
	str.WriteString("\nnext: ")
	str.WriteString(disassemble.Disassemble(m.machine.Instructions()[m.machine.ProgramCounter()]))
	str.WriteByte('\n')
	fmt.Fprint(m.out, str.String())
}

func (m *Monitor) stepCommand(args []string) error {
	count := 1
	if len(args) > 0 {
		value, err := strconv.Atoi(args[0])
		if err != nil || value < 1 {
			return fmt.Errorf("bad step count %q", args[0])
		}
		count = value
	}
	for i := 0; i < count; i++ {
		result := m.machine.Step()
		fmt.Fprintf(m.out, "%v\n", result)
		if result.Kind == vm.IllegalInstruction {
			break
		}
	}
	m.printState()
	return nil
}

func (m *Monitor) runCommand(args []string) error {
	limit := defaultRunLimit
	if len(args) > 0 {
		value, err := strconv.Atoi(args[0])
		if err != nil || value < 1 {
			return fmt.Errorf("bad run limit %q", args[0])
		}
		limit = value
	}
	executed := 0
	for executed < limit {
		result := m.machine.Step()
		executed++
		if result.Kind == vm.Yield || result.Kind == vm.IllegalInstruction {
			fmt.Fprintf(m.out, "%v after %d steps\n", result, executed)
			m.printState()
			return nil
		}
		if slices.Contains(m.breakpoints, m.machine.ProgramCounter()) {
			fmt.Fprintf(m.out, "break at %04X after %d steps\n", m.machine.ProgramCounter(), executed)
			m.printState()
			return nil
		}
	}
	fmt.Fprintf(m.out, "still running after %d steps\n", executed)
	m.printState()
	return nil
}

func (m *Monitor) dumpCommand(args []string, seg *segment.Segment) error {
	if len(args) == 0 {
		return fmt.Errorf("missing address")
	}
	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	count := uint16(8)
	if len(args) > 1 {
		value, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		count = value
	}
	var str strings.Builder
	for i := uint16(0); i < count; i++ {
		if i%8 == 0 {
			if i != 0 {
				str.WriteByte('\n')
			}
			hex.FormatWord(&str, address+i)
			str.WriteString(":")
		}
		str.WriteByte(' ')
		hex.FormatWord(&str, seg[address+i])
	}
	str.WriteByte('\n')
	fmt.Fprint(m.out, str.String())
	return nil
}

func (m *Monitor) disCommand(args []string) error {
	address := m.machine.ProgramCounter()
	count := uint16(8)
	if len(args) > 0 {
		value, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		address = value
	}
	if len(args) > 1 {
		value, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		count = value
	}
	var str strings.Builder
	for i := uint16(0); i < count; i++ {
		word := m.machine.Instructions()[address+i]
		hex.FormatWord(&str, address+i)
		str.WriteString(": ")
		hex.FormatWord(&str, word)
		str.WriteString("  ")
		str.WriteString(disassemble.Disassemble(word))
		str.WriteByte('\n')
	}
	fmt.Fprint(m.out, str.String())
	return nil
}

func (m *Monitor) breakCommand(args []string) error {
	if len(args) == 0 {
		if len(m.breakpoints) == 0 {
			fmt.Fprintln(m.out, "no breakpoints")
			return nil
		}
		var str strings.Builder
		str.WriteString("breakpoints:")
		for _, bp := range m.breakpoints {
			str.WriteByte(' ')
			hex.FormatWord(&str, bp)
		}
		str.WriteByte('\n')
		fmt.Fprint(m.out, str.String())
		return nil
	}
	address, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	if i := slices.Index(m.breakpoints, address); i >= 0 {
		m.breakpoints = slices.Delete(m.breakpoints, i, i+1)
		fmt.Fprintf(m.out, "breakpoint at %04X cleared\n", address)
	} else {
		m.breakpoints = append(m.breakpoints, address)
		fmt.Fprintf(m.out, "breakpoint at %04X set\n", address)
	}
	return nil
}

func parseAddress(arg string) (uint16, error) {
	value, err := strconv.ParseUint(arg, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("bad address %q", arg)
	}
	return uint16(value), nil
}
