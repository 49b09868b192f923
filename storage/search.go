package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// internalNodeFindChildIndex returns the smallest cell index i such
// that InternalNodeKey(i) >= key, i.e. the binary search lower bound.
// InternalNodeChild(data, i) is the child subtree that may contain
// key, since internal keys hold the max key of the subtree to their
// left (I2).
func internalNodeFindChildIndex(data []byte, key uint32) uint32 {
	numKeys := InternalNodeNumKeys(data)
	lo, hi := uint32(0), numKeys
	for lo != hi {
		mid := lo + (hi-lo)/2
		if InternalNodeKey(data, mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// leafNodeFind returns the smallest cell index i such that
// LeafNodeKey(i) >= key. If the leaf holds key, that is the cell at
// the returned index.
func leafNodeFind(data []byte, key uint32) uint32 {
	numCells := LeafNodeNumCells(data)
	lo, hi := uint32(0), numCells
	for lo != hi {
		mid := lo + (hi-lo)/2
		if LeafNodeKey(data, mid) >= key {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

// TableFind descends from pageNum to the leaf that does or would
// contain key, returning its page number and the cell index at which
// key sits (or where it would be inserted).
func TableFind(pgr *pager.Pager, pageNum uint32, key uint32) (leafPageNum uint32, cellNum uint32, err error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return 0, 0, fmt.Errorf("storage: TableFind: %w", err)
	}
	data := page.Data[:]

	switch GetNodeType(data) {
	case NodeLeaf:
		return pageNum, leafNodeFind(data, key), nil
	case NodeInternal:
		childIdx := internalNodeFindChildIndex(data, key)
		childPageNum := InternalNodeChild(data, childIdx)
		return TableFind(pgr, childPageNum, key)
	default:
		return 0, 0, fmt.Errorf("storage: TableFind: %w: page %d has unknown node type", ErrCorrupt, pageNum)
	}
}
