package storage

import (
	"path/filepath"
	"testing"

	"github.com/l4zy9uy/btreekv/pager"
)

func TestTableStartEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	pgr, err := pager.OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer pgr.Close()

	rootPage, err := pgr.GetPage(RootPageNum)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	InitializeLeafNode(rootPage.Data[:])
	SetNodeRoot(rootPage.Data[:], true)

	cur, err := TableStart(pgr, RootPageNum)
	if err != nil {
		t.Fatalf("TableStart: %v", err)
	}
	if !cur.EndOfTable {
		t.Errorf("expected EndOfTable on a fresh empty table")
	}
}

func TestCursorAdvanceAcrossLeaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "advance.db")
	pgr, err := pager.OpenPager(path)
	if err != nil {
		t.Fatalf("OpenPager: %v", err)
	}
	defer pgr.Close()

	leftPage, err := pgr.GetPage(0)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	InitializeLeafNode(leftPage.Data[:])
	SetNodeRoot(leftPage.Data[:], true)
	SetLeafNodeNumCells(leftPage.Data[:], 1)
	SetLeafNodeKey(leftPage.Data[:], 0, 1)
	if err := SerializeRow(testRow(1), LeafNodeValue(leftPage.Data[:], 0)); err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}
	SetLeafNodeNextLeaf(leftPage.Data[:], 1)

	rightPage, err := pgr.GetPage(1)
	if err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	InitializeLeafNode(rightPage.Data[:])
	SetLeafNodeNumCells(rightPage.Data[:], 1)
	SetLeafNodeKey(rightPage.Data[:], 0, 2)
	if err := SerializeRow(testRow(2), LeafNodeValue(rightPage.Data[:], 0)); err != nil {
		t.Fatalf("SerializeRow: %v", err)
	}

	cur, err := TableStart(pgr, RootPageNum)
	if err != nil {
		t.Fatalf("TableStart: %v", err)
	}
	if cur.EndOfTable {
		t.Fatalf("expected a row at table start")
	}
	if cur.PageNum != 0 || cur.CellNum != 0 {
		t.Fatalf("cursor at (%d, %d), want (0, 0)", cur.PageNum, cur.CellNum)
	}

	if err := cur.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if cur.EndOfTable {
		t.Fatalf("expected to land on the second leaf, not end of table")
	}
	if cur.PageNum != 1 || cur.CellNum != 0 {
		t.Fatalf("cursor at (%d, %d), want (1, 0)", cur.PageNum, cur.CellNum)
	}

	if err := cur.Advance(); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !cur.EndOfTable {
		t.Fatalf("expected end of table after the last row")
	}
}
