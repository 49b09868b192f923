package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/l4zy9uy/btreekv/storage"
)

type StatementType int

const (
	StatementInsert StatementType = iota
	StatementSelect
	StatementDelete
)

type PrepareResult int

const (
	PrepareSuccess PrepareResult = iota
	PrepareUnrecognizedStatement
	PrepareSyntaxError
	PrepareNegativeID
	PrepareStringTooLong
)

// Statement is the parsed form of one REPL line. RowToInsert is only
// meaningful for StatementInsert; WhereID is only meaningful for
// StatementSelect/StatementDelete, and nil means "no where clause"
// (select all, or nothing to delete).
type Statement struct {
	Type        StatementType
	RowToInsert storage.Row
	WhereID     *uint32
}

// prepareStatement parses a line into a Statement. Supported forms:
//
//	insert <id> <username> <email>
//	select
//	select where id = <id>
//	delete where id = <id>
func prepareStatement(line string, stmt *Statement) PrepareResult {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return PrepareUnrecognizedStatement
	}

	switch fields[0] {
	case "insert":
		return prepareInsert(fields, stmt)
	case "select":
		return prepareWhereID(fields, stmt, StatementSelect)
	case "delete":
		return prepareWhereID(fields, stmt, StatementDelete)
	default:
		return PrepareUnrecognizedStatement
	}
}

func prepareInsert(fields []string, stmt *Statement) PrepareResult {
	stmt.Type = StatementInsert
	if len(fields) != 4 {
		return PrepareSyntaxError
	}

	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return PrepareSyntaxError
	}
	if id < 0 {
		return PrepareNegativeID
	}
	username, email := fields[2], fields[3]
	if len(username) > int(storage.UsernameSize-1) || len(email) > int(storage.EmailSize-1) {
		return PrepareStringTooLong
	}

	stmt.RowToInsert = storage.Row{Id: uint32(id), Username: username, Email: email}
	return PrepareSuccess
}

// prepareWhereID parses an optional trailing "where id = <id>" clause
// shared by select and delete.
func prepareWhereID(fields []string, stmt *Statement, t StatementType) PrepareResult {
	stmt.Type = t
	stmt.WhereID = nil

	if len(fields) == 1 {
		return PrepareSuccess
	}
	if len(fields) != 5 || fields[1] != "where" || fields[2] != "id" || fields[3] != "=" {
		return PrepareSyntaxError
	}
	id, err := strconv.Atoi(fields[4])
	if err != nil || id < 0 {
		return PrepareSyntaxError
	}
	v := uint32(id)
	stmt.WhereID = &v
	return PrepareSuccess
}

func printRow(row storage.Row) {
	fmt.Printf("(%d, %s, %s)\n", row.Id, row.Username, row.Email)
}
