package storage

import "testing"

func TestLeafNodeFind(t *testing.T) {
	var data [4096]byte
	InitializeLeafNode(data[:])
	SetLeafNodeNumCells(data[:], 3)
	SetLeafNodeKey(data[:], 0, 10)
	SetLeafNodeKey(data[:], 1, 20)
	SetLeafNodeKey(data[:], 2, 30)

	cases := []struct {
		key  uint32
		want uint32
	}{
		{5, 0},
		{10, 0},
		{15, 1},
		{20, 1},
		{25, 2},
		{30, 2},
		{35, 3},
	}
	for _, c := range cases {
		if got := leafNodeFind(data[:], c.key); got != c.want {
			t.Errorf("leafNodeFind(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}

func TestInternalNodeFindChildIndex(t *testing.T) {
	var data [4096]byte
	InitializeInternalNode(data[:])
	SetInternalNodeNumKeys(data[:], 2)
	SetInternalNodeKey(data[:], 0, 10)
	SetInternalNodeKey(data[:], 1, 20)

	cases := []struct {
		key  uint32
		want uint32
	}{
		{5, 0},
		{10, 0},
		{15, 1},
		{20, 1},
		{25, 2},
	}
	for _, c := range cases {
		if got := internalNodeFindChildIndex(data[:], c.key); got != c.want {
			t.Errorf("internalNodeFindChildIndex(%d) = %d, want %d", c.key, got, c.want)
		}
	}
}
