// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/vm8085/cpu"
	"github.com/ezrec/vm8085/emulator"
	"github.com/ezrec/vm8085/internal"
)

func main() {
	var compile string
	var binary string
	var output string
	var ramSize int
	var limit int
	var save bool
	var listing bool
	var defines bool
	var dump bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&binary, "b", "", "Binary image to load at address 0")
	flag.StringVar(&output, "o", "", "Write the program image to this file")
	flag.IntVar(&ramSize, "m", cpu.RAM_SIZE, "RAM size in bytes")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to execute, 0 for no limit")
	flag.BoolVar(&save, "s", false, "Save program image only, do not execute")
	flag.BoolVar(&listing, "l", false, "Print a disassembly listing of the program")
	flag.BoolVar(&defines, "D", false, "Print the assembler predefines")
	flag.BoolVar(&dump, "d", false, "Dump CPU state after execution")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) != 0 && len(binary) != 0 {
		log.Fatalf("%v: -c and -b are exclusive", os.Args[0])
	}

	emu := emulator.NewEmulator(ramSize)
	emu.Verbose = verbose

	if defines {
		for key, value := range internal.IterSeq2Sorted(emu.Defines()) {
			fmt.Printf("%v = %v\n", key, value)
		}
	}

	var image []uint8

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		image = emu.Program.Binary()
	}

	if len(binary) != 0 {
		var err error
		image, err = os.ReadFile(binary)
		if err != nil {
			log.Fatalf("%v: %v", binary, err)
		}
	}

	if len(output) != 0 {
		err := os.WriteFile(output, image, 0o644)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if listing {
		for addr, code := range cpu.Disassemble(image, 0) {
			fmt.Printf("%04x: % -8x %v\n", addr, code.Bytes(), code)
		}
	}

	if save || len(image) == 0 {
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Fatal(err)
	}

	// Raw binaries have no listing to load from.
	if len(binary) != 0 {
		err = emu.Cpu.Load(0, image)
		if err != nil {
			log.Fatal(err)
		}
	}

	err = emu.Run(limit)
	if dump {
		fmt.Print(emu.Cpu.String())
	}
	if err != nil {
		log.Fatal(err)
	}
}
