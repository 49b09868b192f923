// Command btreekv is a minimal REPL over the storage package,
// mirroring the original tutorial's shell: insert, select (with an
// optional "where id = N"), delete, and a handful of dot-commands for
// inspecting the tree.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/l4zy9uy/btreekv/storage"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: btreekv <database file>")
		os.Exit(1)
	}

	tbl, err := storage.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "open: %v\n", err)
		os.Exit(1)
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		printPrompt()
		line, err := readInput(reader)
		if err != nil {
			tbl.Close()
			return
		}

		if len(line) > 0 && line[0] == '.' {
			if doMetaCommand(line, tbl) == MetaCommandUnrecognizedCommand {
				fmt.Printf("Unrecognized command %q\n", line)
			}
			continue
		}

		var stmt Statement
		switch prepareStatement(line, &stmt) {
		case PrepareUnrecognizedStatement:
			fmt.Printf("Unrecognized keyword at start of %q\n", line)
			continue
		case PrepareSyntaxError:
			fmt.Println("Syntax error. Could not parse statement.")
			continue
		case PrepareNegativeID:
			fmt.Println("ID must be positive.")
			continue
		case PrepareStringTooLong:
			fmt.Println("String is too long.")
			continue
		}

		executeStatement(&stmt, tbl)
	}
}

func executeStatement(stmt *Statement, tbl *storage.Table) {
	switch stmt.Type {
	case StatementInsert:
		row := stmt.RowToInsert
		if err := tbl.Insert(row.Id, row); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				fmt.Println("Error: Duplicate key.")
				return
			}
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Println("Executed.")
	case StatementSelect:
		executeSelect(stmt, tbl)
	case StatementDelete:
		executeDelete(stmt, tbl)
	}
}

func executeSelect(stmt *Statement, tbl *storage.Table) {
	if stmt.WhereID == nil {
		cur, err := tbl.Start()
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		for !cur.EndOfTable {
			buf, err := cur.Value()
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			row, err := storage.DeserializeRow(buf)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			printRow(row)
			if err := cur.Advance(); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
		}
		return
	}

	row, err := tbl.Find(*stmt.WhereID)
	if errors.Is(err, storage.ErrKeyNotFound) {
		fmt.Println("Not found!")
		return
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	printRow(row)
}

func executeDelete(stmt *Statement, tbl *storage.Table) {
	if stmt.WhereID == nil {
		fmt.Println("Syntax error. delete requires a where clause.")
		return
	}
	if err := tbl.Delete(*stmt.WhereID); errors.Is(err, storage.ErrKeyNotFound) {
		fmt.Println("Not found!")
	} else if err != nil {
		fmt.Printf("Error: %v\n", err)
	} else {
		fmt.Println("Executed.")
	}
}
