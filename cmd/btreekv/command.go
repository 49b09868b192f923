package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/l4zy9uy/btreekv/storage"
)

type MetaCommandResult int

const (
	MetaCommandSuccess MetaCommandResult = iota
	MetaCommandUnrecognizedCommand
)

// doMetaCommand handles the dot-commands: .exit closes the table and
// terminates, .btree and .constants dump diagnostics to stdout.
func doMetaCommand(line string, tbl *storage.Table) MetaCommandResult {
	switch strings.TrimSpace(line) {
	case ".exit":
		tbl.Close()
		os.Exit(0)
	case ".btree":
		fmt.Println("Tree:")
		storage.PrintTree(os.Stdout, tbl.Pager(), storage.RootPageNum, 0)
	case ".constants":
		fmt.Println("Constants:")
		storage.PrintConstants(os.Stdout)
	default:
		return MetaCommandUnrecognizedCommand
	}
	return MetaCommandSuccess
}
