// Copyright 2014-2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IM Mode = iota // Immediate
	ZP             // Zero Page
	ZX             // Zero Page,X
	ZY             // Zero Page,Y
	AB             // Absolute
	AX             // Absolute,X
	AY             // Absolute,Y
	IX             // (Indirect,X)
	IY             // (Indirect),Y
	AC             // Accumulator
	IP             // Implied
	RE             // Relative
	ID             // (Indirect)

	modeCount
)

var modeName = [modeCount]string{
	"IM", "ZP", "ZX", "ZY", "AB", "AX", "AY", "IX", "IY", "AC", "IP", "RE", "ID",
}

func (m Mode) String() string {
	if m < modeCount {
		return modeName[m]
	}
	return "??"
}

// Length of each instruction, indexed by addressing mode.
var modeLength = [modeCount]byte{2, 2, 2, 2, 3, 3, 3, 2, 2, 1, 1, 2, 3}

// Opcode data for the unextended NMOS 6502 instruction set.
type opcodeData struct {
	name   string
	mode   Mode
	opcode byte
}

var opcodeTable = []opcodeData{
	{"ADC", IM, 0x69}, {"ADC", ZP, 0x65}, {"ADC", ZX, 0x75}, {"ADC", AB, 0x6D},
	{"ADC", AX, 0x7D}, {"ADC", AY, 0x79}, {"ADC", IX, 0x61}, {"ADC", IY, 0x71},

	{"AND", IM, 0x29}, {"AND", ZP, 0x25}, {"AND", ZX, 0x35}, {"AND", AB, 0x2D},
	{"AND", AX, 0x3D}, {"AND", AY, 0x39}, {"AND", IX, 0x21}, {"AND", IY, 0x31},

	{"ASL", AC, 0x0A}, {"ASL", ZP, 0x06}, {"ASL", ZX, 0x16}, {"ASL", AB, 0x0E},
	{"ASL", AX, 0x1E},

	{"BCC", RE, 0x90}, {"BCS", RE, 0xB0}, {"BEQ", RE, 0xF0}, {"BMI", RE, 0x30},
	{"BNE", RE, 0xD0}, {"BPL", RE, 0x10}, {"BVC", RE, 0x50}, {"BVS", RE, 0x70},

	{"BIT", ZP, 0x24}, {"BIT", AB, 0x2C},

	{"BRK", IP, 0x00}, {"CLC", IP, 0x18}, {"CLD", IP, 0xD8}, {"CLI", IP, 0x58},
	{"CLV", IP, 0xB8},

	{"CMP", IM, 0xC9}, {"CMP", ZP, 0xC5}, {"CMP", ZX, 0xD5}, {"CMP", AB, 0xCD},
	{"CMP", AX, 0xDD}, {"CMP", AY, 0xD9}, {"CMP", IX, 0xC1}, {"CMP", IY, 0xD1},

	{"CPX", IM, 0xE0}, {"CPX", ZP, 0xE4}, {"CPX", AB, 0xEC},
	{"CPY", IM, 0xC0}, {"CPY", ZP, 0xC4}, {"CPY", AB, 0xCC},

	{"DEC", ZP, 0xC6}, {"DEC", ZX, 0xD6}, {"DEC", AB, 0xCE}, {"DEC", AX, 0xDE},
	{"DEX", IP, 0xCA}, {"DEY", IP, 0x88},

	{"EOR", IM, 0x49}, {"EOR", ZP, 0x45}, {"EOR", ZX, 0x55}, {"EOR", AB, 0x4D},
	{"EOR", AX, 0x5D}, {"EOR", AY, 0x59}, {"EOR", IX, 0x41}, {"EOR", IY, 0x51},

	{"INC", ZP, 0xE6}, {"INC", ZX, 0xF6}, {"INC", AB, 0xEE}, {"INC", AX, 0xFE},
	{"INX", IP, 0xE8}, {"INY", IP, 0xC8},

	{"JMP", AB, 0x4C}, {"JMP", ID, 0x6C},
	{"JSR", AB, 0x20},

	{"LDA", IM, 0xA9}, {"LDA", ZP, 0xA5}, {"LDA", ZX, 0xB5}, {"LDA", AB, 0xAD},
	{"LDA", AX, 0xBD}, {"LDA", AY, 0xB9}, {"LDA", IX, 0xA1}, {"LDA", IY, 0xB1},

	{"LDX", IM, 0xA2}, {"LDX", ZP, 0xA6}, {"LDX", ZY, 0xB6}, {"LDX", AB, 0xAE},
	{"LDX", AY, 0xBE},

	{"LDY", IM, 0xA0}, {"LDY", ZP, 0xA4}, {"LDY", ZX, 0xB4}, {"LDY", AB, 0xAC},
	{"LDY", AX, 0xBC},

	{"LSR", AC, 0x4A}, {"LSR", ZP, 0x46}, {"LSR", ZX, 0x56}, {"LSR", AB, 0x4E},
	{"LSR", AX, 0x5E},

	{"NOP", IP, 0xEA},

	{"ORA", IM, 0x09}, {"ORA", ZP, 0x05}, {"ORA", ZX, 0x15}, {"ORA", AB, 0x0D},
	{"ORA", AX, 0x1D}, {"ORA", AY, 0x19}, {"ORA", IX, 0x01}, {"ORA", IY, 0x11},

	{"PHA", IP, 0x48}, {"PHP", IP, 0x08}, {"PLA", IP, 0x68}, {"PLP", IP, 0x28},

	{"ROL", AC, 0x2A}, {"ROL", ZP, 0x26}, {"ROL", ZX, 0x36}, {"ROL", AB, 0x2E},
	{"ROL", AX, 0x3E},

	{"ROR", AC, 0x6A}, {"ROR", ZP, 0x66}, {"ROR", ZX, 0x76}, {"ROR", AB, 0x6E},
	{"ROR", AX, 0x7E},

	{"RTI", IP, 0x40}, {"RTS", IP, 0x60},

	{"SBC", IM, 0xE9}, {"SBC", ZP, 0xE5}, {"SBC", ZX, 0xF5}, {"SBC", AB, 0xED},
	{"SBC", AX, 0xFD}, {"SBC", AY, 0xF9}, {"SBC", IX, 0xE1}, {"SBC", IY, 0xF1},

	{"SEC", IP, 0x38}, {"SED", IP, 0xF8}, {"SEI", IP, 0x78},

	{"STA", ZP, 0x85}, {"STA", ZX, 0x95}, {"STA", AB, 0x8D}, {"STA", AX, 0x9D},
	{"STA", AY, 0x99}, {"STA", IX, 0x81}, {"STA", IY, 0x91},

	{"STX", ZP, 0x86}, {"STX", ZY, 0x96}, {"STX", AB, 0x8E},
	{"STY", ZP, 0x84}, {"STY", ZX, 0x94}, {"STY", AB, 0x8C},

	{"TAX", IP, 0xAA}, {"TAY", IP, 0xA8}, {"TSX", IP, 0xBA}, {"TXA", IP, 0x8A},
	{"TXS", IP, 0x9A}, {"TYA", IP, 0x98},
}

// An Instruction describes a single opcode: its mnemonic, the addressing
// mode it uses and its length in bytes.
type Instruction struct {
	Name   string
	Mode   Mode
	Opcode byte
	Length byte
}

// An InstructionSet holds every instruction, indexed by mnemonic and by
// addressing mode.
type InstructionSet struct {
	variants map[string]*[modeCount]*Instruction
	opcodes  [256]*Instruction
}

// Decode returns the instruction encoded by an opcode byte, or nil if the
// byte is not a valid opcode.
func (s *InstructionSet) Decode(opcode byte) *Instruction {
	return s.opcodes[opcode]
}

// Lookup returns the instruction for a mnemonic and addressing mode, or
// nil if the mnemonic does not support the mode.
func (s *InstructionSet) Lookup(name string, mode Mode) *Instruction {
	v, ok := s.variants[name]
	if !ok || mode >= modeCount {
		return nil
	}
	return v[mode]
}

// Has reports whether the mnemonic supports the addressing mode.
func (s *InstructionSet) Has(name string, mode Mode) bool {
	return s.Lookup(name, mode) != nil
}

// IsMnemonic reports whether name is a valid instruction mnemonic.
func (s *InstructionSet) IsMnemonic(name string) bool {
	_, ok := s.variants[name]
	return ok
}

// GetInstructions returns all instructions that share a mnemonic.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	v, ok := s.variants[name]
	if !ok {
		return nil
	}
	var insts []*Instruction
	for _, inst := range v {
		if inst != nil {
			insts = append(insts, inst)
		}
	}
	return insts
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{variants: make(map[string]*[modeCount]*Instruction)}
	for _, d := range opcodeTable {
		v, ok := set.variants[d.name]
		if !ok {
			v = new([modeCount]*Instruction)
			set.variants[d.name] = v
		}
		inst := &Instruction{
			Name:   d.name,
			Mode:   d.mode,
			Opcode: d.opcode,
			Length: modeLength[d.mode],
		}
		v[d.mode] = inst
		set.opcodes[d.opcode] = inst
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the 6502 instruction set.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}
