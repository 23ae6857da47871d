// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/vm8085/cpu"
	"github.com/ezrec/vm8085/internal"
)

// Emulator state. CPU + memory + the program listing it was loaded from.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
}

// NewEmulator creates a new emulator with ramSize bytes of memory.
func NewEmulator(ramSize int) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(ramSize),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines.
// Emulator defines take precedence over CPU defines of the same name.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"RAM_SIZE": fmt.Sprintf("%#x", emu.Cpu.Memory.Len()),
	}

	return internal.IterSeq2Unique(internal.IterSeq2Concat(maps.All(defines),
		emu.Cpu.Defines(),
	))
}

// Reset the emulator, and load the program image at address 0.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Cpu.Reset()

	image := emu.Program.Binary()
	err = emu.Cpu.Load(0, image)
	if err != nil {
		err = &ErrRuntime{Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("emulator: loaded %d bytes", len(image))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return int(emu.Cpu.Registers.PC)
}

// LineNo returns the source line number of the instruction at PC, or 0
// if PC is outside of the program listing.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Registers.PC)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
// done is set once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	lineno := emu.LineNo()
	pc := emu.Cpu.Registers.PC

	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		return
	}

	done = emu.Cpu.Halted
	return
}

// Run ticks the emulator until it halts. If limit is positive and the
// program has not halted after limit ticks, ErrTickLimit is returned.
func (emu *Emulator) Run(limit int) (err error) {
	for ticks := 0; limit <= 0 || ticks < limit; ticks++ {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrTickLimit
	return
}
