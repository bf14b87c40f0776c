/*
 * tinyvm - Test-driver execution environment.
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

package testdriver

import (
	"github.com/BenWiederhake/tinyvm/emu/segment"
	"github.com/BenWiederhake/tinyvm/emu/vm"
)

/*
   Two machines, a driver and a testee, share nothing but explicit messages.
   The driver always runs first. Yielding selects a command by the yield
   value:

     1  execute the testee until it yields, dies or runs out of budget
     2  done, test results are in data[0..r1), followed by the marker words
     3  access testee registers through a bitset (r1) at data offset r2
     4  copy r3 words of driver data (r2) over testee data (r1)
     5  copy r3 words of testee data (r2) into driver data (r1)
     6  copy r3 words of testee instructions (r2) into driver data (r1)
     7  zero the testee's data segment, registers and program counter
     8  set the testee budget to the 48-bit value in r1..r3
     9  set the testee's program counter to r1

   Anything else terminates the run as an illegal yield. When the testee
   stops, its stop reason lands in driver registers 0 and 1:

     r0 = 0x0000, r1 = value   on yield
     r0 = 0x0001, r1 = 0       on budget exhaustion
     r0 = 0xFFFF, r1 = word    on illegal instruction
*/

const (
	// Environment id and layout version, served in the driver's data
	// segment at 0xFFFF and 0xFFFE.
	EnvironmentID uint16 = 0x0003
	LayoutVersion uint16 = 0x0001

	DefaultTesteeLimit uint64 = 0x0000FFFFFFFFFFFF
	DefaultTotalBudget uint64 = 0x0000FFFFFFFFFFFF

	// First four bytes of SHA256(b"test driver result\n"), the sanity
	// marker a driver must place after its result list.
	marker0 uint16 = 0x650D
	marker1 uint16 = 0x4585
)

// Testee stop reasons as written into driver register 0.
const (
	testeeYielded uint16 = 0x0000
	testeeTimeout uint16 = 0x0001
	testeeIllegal uint16 = 0xFFFF
)

// Driver commands, selected by the yield value.
const (
	cmdExecuteTestee     uint16 = 0x0001
	cmdDone              uint16 = 0x0002
	cmdAccessRegisters   uint16 = 0x0003
	cmdOverwriteData     uint16 = 0x0004
	cmdReadData          uint16 = 0x0005
	cmdReadInstructions  uint16 = 0x0006
	cmdResetTesteeVM     uint16 = 0x0007
	cmdResetTimeLimit    uint16 = 0x0008
	cmdSetProgramCounter uint16 = 0x0009
)

// TestDriver drives the two machines in strict alternation: while
// testeeRemaining is positive the testee executes, otherwise the driver.
type TestDriver struct {
	driver          *vm.VirtualMachine
	testee          *vm.VirtualMachine
	driverInsns     uint64
	testeeInsns     uint64
	testeeLimit     uint64
	testeeRemaining uint64
}

func New(driverInstructions, testeeInstructions *segment.Segment) *TestDriver {
	driverData := segment.NewZeroed()
	driverData[0xFFFF] = EnvironmentID
	driverData[0xFFFE] = LayoutVersion
	return &TestDriver{
		driver:      vm.New(driverInstructions, driverData),
		testee:      vm.New(testeeInstructions, segment.NewZeroed()),
		testeeLimit: DefaultTesteeLimit,
	}
}

func (t *TestDriver) Driver() *vm.VirtualMachine {
	return t.driver
}

func (t *TestDriver) Testee() *vm.VirtualMachine {
	return t.testee
}

// DriverInsns counts the driver's successfully executed steps.
func (t *TestDriver) DriverInsns() uint64 {
	return t.driverInsns
}

// TesteeInsns counts the testee's successfully executed steps.
func (t *TestDriver) TesteeInsns() uint64 {
	return t.testeeInsns
}

// DoStep advances whichever machine holds the focus by one instruction.
// A non-nil result terminates the session.
func (t *TestDriver) DoStep() *TestResult {
	if t.testeeRemaining > 0 {
		switch result := t.testee.Step(); result.Kind {
		case vm.Continue, vm.DebugDump:
			t.testeeInsns++
			t.testeeRemaining--
		case vm.IllegalInstruction:
			// The illegal attempt costs nothing but forfeits the rest of
			// the testee's budget.
			t.driver.SetRegister(0, testeeIllegal)
			t.driver.SetRegister(1, result.Value)
			t.testeeRemaining = 0
		case vm.Yield:
			t.testeeInsns++
			t.driver.SetRegister(0, testeeYielded)
			t.driver.SetRegister(1, result.Value)
			t.testeeRemaining = 0
		}
		return nil
	}

	switch result := t.driver.Step(); result.Kind {
	case vm.Continue, vm.DebugDump:
		t.driverInsns++
		return nil
	case vm.IllegalInstruction:
		return &TestResult{Kind: ResultIllegalInstruction, Value: result.Value}
	default: // vm.Yield
		t.driverInsns++
		return t.handleDriverYield(result.Value)
	}
}

func (t *TestDriver) handleDriverYield(command uint16) *TestResult {
	switch command {
	case cmdExecuteTestee:
		// Pre-seed the timeout response so budget exhaustion needs no
		// separate bookkeeping; a yield or illegal overwrites it.
		t.driver.SetRegister(0, testeeTimeout)
		t.driver.SetRegister(1, 0)
		t.testeeRemaining = t.testeeLimit
	case cmdDone:
		return &TestResult{Kind: ResultCompleted, Completion: t.collectCompletion()}
	case cmdAccessRegisters:
		t.accessRegisters()
	case cmdOverwriteData:
		t.copyWords(t.testee.Data(), t.driver.Register(1), t.driver.Data(), t.driver.Register(2))
	case cmdReadData:
		t.copyWords(t.driver.Data(), t.driver.Register(1), t.testee.Data(), t.driver.Register(2))
	case cmdReadInstructions:
		t.copyWords(t.driver.Data(), t.driver.Register(1), t.testee.Instructions(), t.driver.Register(2))
	case cmdResetTesteeVM:
		t.testee.Reset()
	case cmdResetTimeLimit:
		t.testeeLimit = uint64(t.driver.Register(1))<<32 |
			uint64(t.driver.Register(2))<<16 |
			uint64(t.driver.Register(3))
	case cmdSetProgramCounter:
		t.testee.SetProgramCounter(t.driver.Register(1))
	default:
		return &TestResult{Kind: ResultIllegalYield, Value: command}
	}
	return nil
}

// accessRegisters moves words between the driver's data segment and the
// testee's register file. A set bit i writes data[offset+i] into testee
// register i, a clear bit reads the register into data[offset+i].
func (t *TestDriver) accessRegisters() {
	bitset := t.driver.Register(1)
	offset := t.driver.Register(2)
	data := t.driver.Data()
	for i := range vm.NumRegisters {
		address := offset + uint16(i) // wraps
		if bitset&(1<<i) != 0 {
			t.testee.SetRegister(i, data[address])
		} else {
			data[address] = t.testee.Register(i)
		}
	}
}

// copyWords copies count (driver r3) words between segments, all offsets
// wrapping. The segments are never aliased: driver and testee own theirs
// exclusively.
func (t *TestDriver) copyWords(dst *segment.Segment, dstOffset uint16, src *segment.Segment, srcOffset uint16) {
	count := t.driver.Register(3)
	for i := uint16(0); i < count; i++ {
		dst[dstOffset+i] = src[srcOffset+i]
	}
}

func (t *TestDriver) collectCompletion() *CompletionData {
	expectedTests := t.driver.Register(1)
	completion := &CompletionData{}
	if expectedTests > 65534 {
		// The marker words would sit beyond the address space.
		return completion
	}
	data := t.driver.Data()
	for i := uint16(0); i < expectedTests; i++ {
		completion.Results = append(completion.Results, IndividualResultFrom(data[i]))
	}
	completion.MarkerOK = data[expectedTests] == marker0 && data[expectedTests+1] == marker1
	return completion
}

// Conclude runs the session until it terminates or the combined budget is
// spent. Exactly one of the two instruction counters grows per step, so the
// sum never exceeds totalBudget.
func (t *TestDriver) Conclude(totalBudget uint64) TestResult {
	for t.driverInsns+t.testeeInsns < totalBudget {
		if result := t.DoStep(); result != nil {
			return *result
		}
	}
	return TestResult{Kind: ResultTimeout}
}
