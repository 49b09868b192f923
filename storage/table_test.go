package storage

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestTable(t *testing.T) *Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { tbl.Close() })
	return tbl
}

func testRow(id uint32) Row {
	return Row{Id: id, Username: fmt.Sprintf("user%d", id), Email: fmt.Sprintf("user%d@example.com", id)}
}

func scanAll(t *testing.T, tbl *Table) []Row {
	t.Helper()
	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	var rows []Row
	for !cur.EndOfTable {
		buf, err := cur.Value()
		if err != nil {
			t.Fatalf("Cursor.Value: %v", err)
		}
		row, err := DeserializeRow(buf)
		if err != nil {
			t.Fatalf("DeserializeRow: %v", err)
		}
		rows = append(rows, row)
		if err := cur.Advance(); err != nil {
			t.Fatalf("Cursor.Advance: %v", err)
		}
	}
	return rows
}

func TestInsertAndFindSingleRow(t *testing.T) {
	tbl := openTestTable(t)
	row := testRow(1)
	if err := tbl.Insert(1, row); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, err := tbl.Find(1)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != row {
		t.Errorf("Find(1) = %+v, want %+v", got, row)
	}
}

func TestFindMissingKeyFails(t *testing.T) {
	tbl := openTestTable(t)
	if err := tbl.Insert(1, testRow(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := tbl.Find(2); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Find(2) error = %v, want ErrKeyNotFound", err)
	}
}

func TestInsertDuplicateKeyFails(t *testing.T) {
	tbl := openTestTable(t)
	if err := tbl.Insert(1, testRow(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Insert(1, testRow(1)); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("second Insert(1) error = %v, want ErrDuplicateKey", err)
	}
}

func TestDeleteMissingKeyFails(t *testing.T) {
	tbl := openTestTable(t)
	if err := tbl.Insert(1, testRow(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Delete(2); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Delete(2) error = %v, want ErrKeyNotFound", err)
	}
}

// TestScanOrderedAfterShuffledInsert inserts enough rows, out of key
// order, to force at least one leaf split and verifies the table
// still scans back in ascending key order (I1).
func TestScanOrderedAfterShuffledInsert(t *testing.T) {
	tbl := openTestTable(t)
	order := []uint32{13, 4, 27, 1, 19, 8, 22, 5, 30, 11, 2, 17, 25, 9, 14, 3, 28}
	for _, id := range order {
		if err := tbl.Insert(id, testRow(id)); err != nil {
			t.Fatalf("Insert(%d): %v", id, err)
		}
	}

	rows := scanAll(t, tbl)
	if len(rows) != len(order) {
		t.Fatalf("scanned %d rows, want %d", len(rows), len(order))
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Id >= rows[i].Id {
			t.Fatalf("rows out of order at %d: %d then %d", i, rows[i-1].Id, rows[i].Id)
		}
	}
}

// TestManyInsertsForceMultiLevelSplit inserts enough rows that the
// root must split from a leaf into an internal node, and that
// internal node must itself split, then checks every row is still
// findable and the scan stays ordered.
func TestManyInsertsForceMultiLevelSplit(t *testing.T) {
	tbl := openTestTable(t)
	const n = 400
	for i := uint32(0); i < n; i++ {
		// Insert in a non-sequential order so splits happen at varied
		// cell positions, not always at the end.
		key := (i * 37) % n
		if err := tbl.Insert(key, testRow(key)); err != nil {
			t.Fatalf("Insert(%d): %v", key, err)
		}
	}

	for i := uint32(0); i < n; i++ {
		row, err := tbl.Find(i)
		if err != nil {
			t.Fatalf("Find(%d): %v", i, err)
		}
		if row.Id != i {
			t.Fatalf("Find(%d) returned row for id %d", i, row.Id)
		}
	}

	rows := scanAll(t, tbl)
	if len(rows) != n {
		t.Fatalf("scanned %d rows, want %d", len(rows), n)
	}
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Id >= rows[i].Id {
			t.Fatalf("rows out of order at %d: %d then %d", i, rows[i-1].Id, rows[i].Id)
		}
	}
}

// TestDeleteAllRowsShrinksToEmptyRoot inserts a large batch, deletes
// every row, and checks the table ends up with an empty root leaf
// that still behaves like a fresh table.
func TestDeleteAllRowsShrinksToEmptyRoot(t *testing.T) {
	tbl := openTestTable(t)
	const n = 200
	for i := uint32(0); i < n; i++ {
		if err := tbl.Insert(i, testRow(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	for i := uint32(0); i < n; i++ {
		if err := tbl.Delete(i); err != nil {
			t.Fatalf("Delete(%d): %v", i, err)
		}
	}

	cur, err := tbl.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !cur.EndOfTable {
		t.Fatalf("expected empty table after deleting every row")
	}

	if err := tbl.Insert(1, testRow(1)); err != nil {
		t.Fatalf("Insert after drain: %v", err)
	}
	if _, err := tbl.Find(1); err != nil {
		t.Fatalf("Find after drain+reinsert: %v", err)
	}
}

// TestDeleteTriggersMergeAcrossLeaves deletes most rows from a
// multi-leaf table, forcing leaf merges, and checks survivors are
// still findable and the scan order holds.
func TestDeleteTriggersMergeAcrossLeaves(t *testing.T) {
	tbl := openTestTable(t)
	const n = 150
	for i := uint32(0); i < n; i++ {
		if err := tbl.Insert(i, testRow(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}

	var deleted []uint32
	for i := uint32(0); i < n; i++ {
		if i%3 != 0 {
			if err := tbl.Delete(i); err != nil {
				t.Fatalf("Delete(%d): %v", i, err)
			}
			deleted = append(deleted, i)
		}
	}

	for _, id := range deleted {
		if _, err := tbl.Find(id); !errors.Is(err, ErrKeyNotFound) {
			t.Fatalf("Find(%d) after delete error = %v, want ErrKeyNotFound", id, err)
		}
	}

	rows := scanAll(t, tbl)
	for i := 1; i < len(rows); i++ {
		if rows[i-1].Id >= rows[i].Id {
			t.Fatalf("rows out of order at %d: %d then %d", i, rows[i-1].Id, rows[i].Id)
		}
	}
	for i := uint32(0); i < n; i += 3 {
		if _, err := tbl.Find(i); err != nil {
			t.Fatalf("Find(%d) survivor: %v", i, err)
		}
	}
}

// TestReopenPreservesRows closes and reopens the table file,
// checking every row written before Close is still there.
func TestReopenPreservesRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	tbl, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	const n = 50
	for i := uint32(0); i < n; i++ {
		if err := tbl.Insert(i, testRow(i)); err != nil {
			t.Fatalf("Insert(%d): %v", i, err)
		}
	}
	if err := tbl.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	tbl2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen Open: %v", err)
	}
	defer tbl2.Close()

	for i := uint32(0); i < n; i++ {
		row, err := tbl2.Find(i)
		if err != nil {
			t.Fatalf("Find(%d) after reopen: %v", i, err)
		}
		if row != testRow(i) {
			t.Fatalf("Find(%d) after reopen = %+v, want %+v", i, row, testRow(i))
		}
	}
}
