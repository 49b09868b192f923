package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// Cursor tracks a position within a leaf's cells, used to scan the
// table in key order without re-descending the tree for every row.
type Cursor struct {
	pgr        *pager.Pager
	PageNum    uint32
	CellNum    uint32
	EndOfTable bool
}

// TableStart returns a cursor positioned at the first row of the
// table, descending straight to the leftmost leaf rather than routing
// through TableFind(0).
func TableStart(pgr *pager.Pager, rootPageNum uint32) (*Cursor, error) {
	pageNum := rootPageNum
	for {
		page, err := pgr.GetPage(pageNum)
		if err != nil {
			return nil, fmt.Errorf("storage: TableStart: %w", err)
		}
		data := page.Data[:]
		if GetNodeType(data) == NodeLeaf {
			break
		}
		pageNum = InternalNodeChild(data, 0)
	}

	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return nil, fmt.Errorf("storage: TableStart: %w", err)
	}
	numCells := LeafNodeNumCells(page.Data[:])

	return &Cursor{
		pgr:        pgr,
		PageNum:    pageNum,
		CellNum:    0,
		EndOfTable: numCells == 0,
	}, nil
}

// Value returns the raw RowSize-byte slice the cursor currently
// points at.
func (c *Cursor) Value() ([]byte, error) {
	page, err := c.pgr.GetPage(c.PageNum)
	if err != nil {
		return nil, fmt.Errorf("storage: Cursor.Value: %w", err)
	}
	return LeafNodeValue(page.Data[:], c.CellNum), nil
}

// Advance moves the cursor to the next cell, following the leaf's
// next_leaf chain when it runs off the end of the current page.
func (c *Cursor) Advance() error {
	page, err := c.pgr.GetPage(c.PageNum)
	if err != nil {
		return fmt.Errorf("storage: Cursor.Advance: %w", err)
	}
	data := page.Data[:]

	c.CellNum++
	if c.CellNum >= LeafNodeNumCells(data) {
		next := LeafNodeNextLeaf(data)
		if next == 0 {
			c.EndOfTable = true
		} else {
			c.PageNum = next
			c.CellNum = 0
		}
	}
	return nil
}
