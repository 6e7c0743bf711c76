// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

// A command is the host callback stored with each command in the tree,
// along with its help text.
type command struct {
	cmd.CommandDescriptor
	fn func(h *Host, c cmd.Selection) error
}

// A commandGroup holds the commands of one tree, for help display.
type commandGroup struct {
	title    string
	commands []*command
}

var (
	cmds   *cmd.Tree
	groups = map[string]*commandGroup{}
)

func addCommand(t *cmd.Tree, g *commandGroup, d cmd.CommandDescriptor, fn func(*Host, cmd.Selection) error) {
	c := &command{CommandDescriptor: d, fn: fn}
	d.Data = c
	t.AddCommand(d)
	g.commands = append(g.commands, c)
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "at6502"})
	top := &commandGroup{title: "at6502"}
	groups[""] = top

	addCommand(root, top, cmd.CommandDescriptor{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
	}, (*Host).cmdHelp)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:  "assemble",
		Brief: "Assemble source files",
		Description: "Run the assembler on one or more source files, in" +
			" order. The memory image, symbols and listing of the assembly" +
			" become available to the other commands.",
		Usage: "assemble <filename> [<filename> ...]",
	}, (*Host).cmdAssemble)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code of the last assembly starting at" +
			" the requested address. The number of instruction lines to" +
			" disassemble may be specified as an option. If no address is" +
			" specified, the disassembly continues from where the last" +
			" disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
	}, (*Host).cmdDisassemble)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate an expression using the symbols of the last assembly.",
		Usage:       "evaluate <expression>",
	}, (*Host).cmdEval)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:        "exports",
		Brief:       "List exported addresses",
		Description: "Display the global labels of the last assembly in address order.",
		Usage:       "exports",
	}, (*Host).cmdExports)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "Display the assembly listing",
		Description: "Display the listing of the last assembly.",
		Usage:       "list",
	}, (*Host).cmdList)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:  "symbols",
		Brief: "Display the symbol table",
		Description: "Display the symbols defined by the last assembly. If a" +
			" prefix is given, only symbols starting with it are shown.",
		Usage: "symbols [<prefix>]",
	}, (*Host).cmdSymbols)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
	}, (*Host).cmdQuit)
	addCommand(root, top, cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable. Type the set" +
			" command without a variable name or value to display the current" +
			" values of all configuration variables.",
		Usage: "set [<var> <value>]",
	}, (*Host).cmdSet)

	// Memory commands
	mem := root.AddSubtree(cmd.TreeDescriptor{Name: "memory", Brief: "Memory commands"})
	memGroup := &commandGroup{title: "Memory"}
	groups["memory"] = memGroup
	top.commands = append(top.commands, &command{CommandDescriptor: cmd.CommandDescriptor{Name: "memory", Brief: "Memory commands"}})
	addCommand(mem, memGroup, cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of the assembled memory image" +
			" starting from the specified address. The number of bytes to dump" +
			" may be specified as an option.",
		Usage: "memory dump <address> [<bytes>]",
	}, (*Host).cmdMemoryDump)

	// Save commands
	save := root.AddSubtree(cmd.TreeDescriptor{Name: "save", Brief: "Save assembly output"})
	saveGroup := &commandGroup{title: "Save"}
	groups["save"] = saveGroup
	top.commands = append(top.commands, &command{CommandDescriptor: cmd.CommandDescriptor{Name: "save", Brief: "Save assembly output"}})
	addCommand(save, saveGroup, cmd.CommandDescriptor{
		Name:        "image",
		Brief:       "Save the memory image",
		Description: "Save the full 64K memory image of the last assembly.",
		Usage:       "save image <filename>",
	}, (*Host).cmdSaveImage)
	addCommand(save, saveGroup, cmd.CommandDescriptor{
		Name:        "symbols",
		Brief:       "Save the symbol table",
		Description: "Save the symbols of the last assembly, one NAME,XXXX line each.",
		Usage:       "save symbols <filename>",
	}, (*Host).cmdSaveSymbols)
	addCommand(save, saveGroup, cmd.CommandDescriptor{
		Name:        "listing",
		Brief:       "Save the listing",
		Description: "Save the listing of the last assembly.",
		Usage:       "save listing <filename>",
	}, (*Host).cmdSaveListing)
	addCommand(save, saveGroup, cmd.CommandDescriptor{
		Name:        "map",
		Brief:       "Save the source map",
		Description: "Save the address to source line mapping of the last assembly.",
		Usage:       "save map <filename>",
	}, (*Host).cmdSaveMap)

	// Add command shortcuts.
	root.AddShortcut("a", "assemble")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("l", "list")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("sy", "symbols")
	root.AddShortcut("?", "help")

	cmds = root
}
