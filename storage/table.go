package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// RootPageNum is the page the root node always lives at (I5): splits
// relocate the old root's contents to a fresh page and rewrite page
// 0 in place as the new internal root, so callers never need to
// track a separate root pointer.
const RootPageNum = 0

// Table is the single-table façade over a pager and its B+tree: the
// only thing callers need to open a database file, look rows up by
// id, and scan them in key order.
type Table struct {
	pgr *pager.Pager
}

// Open opens path as a table file, initializing page 0 as an empty
// root leaf if the file is new.
func Open(path string) (*Table, error) {
	pgr, err := pager.OpenPager(path)
	if err != nil {
		return nil, fmt.Errorf("storage: Open: %w", err)
	}

	if pgr.NumPages == 0 {
		rootPage, err := pgr.GetPage(RootPageNum)
		if err != nil {
			return nil, fmt.Errorf("storage: Open: %w", err)
		}
		InitializeLeafNode(rootPage.Data[:])
		SetNodeRoot(rootPage.Data[:], true)
	}

	return &Table{pgr: pgr}, nil
}

// Close flushes every resident page and closes the backing file.
func (t *Table) Close() error {
	return t.pgr.Close()
}

// Pager exposes the underlying pager for diagnostics (PrintTree,
// PrintConstants) that need to walk raw pages directly.
func (t *Table) Pager() *pager.Pager {
	return t.pgr
}

// Insert adds row under key, returning ErrDuplicateKey if key already
// exists.
func (t *Table) Insert(key uint32, row Row) error {
	leafPageNum, cellNum, err := TableFind(t.pgr, RootPageNum, key)
	if err != nil {
		return fmt.Errorf("storage: Insert: %w", err)
	}

	leafPage, err := t.pgr.GetPage(leafPageNum)
	if err != nil {
		return fmt.Errorf("storage: Insert: %w", err)
	}
	data := leafPage.Data[:]
	if cellNum < LeafNodeNumCells(data) && LeafNodeKey(data, cellNum) == key {
		return fmt.Errorf("storage: Insert(%d): %w", key, ErrDuplicateKey)
	}

	if err := LeafNodeInsert(t.pgr, leafPageNum, cellNum, key, row); err != nil {
		return fmt.Errorf("storage: Insert(%d): %w", key, err)
	}
	return nil
}

// Find returns the row stored under key, or ErrKeyNotFound.
func (t *Table) Find(key uint32) (Row, error) {
	leafPageNum, cellNum, err := TableFind(t.pgr, RootPageNum, key)
	if err != nil {
		return Row{}, fmt.Errorf("storage: Find: %w", err)
	}

	leafPage, err := t.pgr.GetPage(leafPageNum)
	if err != nil {
		return Row{}, fmt.Errorf("storage: Find: %w", err)
	}
	data := leafPage.Data[:]
	if cellNum >= LeafNodeNumCells(data) || LeafNodeKey(data, cellNum) != key {
		return Row{}, fmt.Errorf("storage: Find(%d): %w", key, ErrKeyNotFound)
	}

	row, err := DeserializeRow(LeafNodeValue(data, cellNum))
	if err != nil {
		return Row{}, fmt.Errorf("storage: Find(%d): %w", key, err)
	}
	return row, nil
}

// Delete removes the row stored under key, or returns ErrKeyNotFound.
func (t *Table) Delete(key uint32) error {
	leafPageNum, cellNum, err := TableFind(t.pgr, RootPageNum, key)
	if err != nil {
		return fmt.Errorf("storage: Delete: %w", err)
	}

	leafPage, err := t.pgr.GetPage(leafPageNum)
	if err != nil {
		return fmt.Errorf("storage: Delete: %w", err)
	}
	data := leafPage.Data[:]
	if cellNum >= LeafNodeNumCells(data) || LeafNodeKey(data, cellNum) != key {
		return fmt.Errorf("storage: Delete(%d): %w", key, ErrKeyNotFound)
	}

	if err := LeafNodeDelete(t.pgr, leafPageNum, cellNum); err != nil {
		return fmt.Errorf("storage: Delete(%d): %w", key, err)
	}
	return nil
}

// Start returns a cursor at the first row in key order.
func (t *Table) Start() (*Cursor, error) {
	cur, err := TableStart(t.pgr, RootPageNum)
	if err != nil {
		return nil, fmt.Errorf("storage: Start: %w", err)
	}
	return cur, nil
}
