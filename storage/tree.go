package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// GetNodeMaxKey returns the largest key stored anywhere in the
// subtree rooted at pageNum. A leaf's max key is its last cell; an
// internal node's max key lives in its rightmost subtree, so this
// recurses through right_child until it reaches a leaf.
func GetNodeMaxKey(pgr *pager.Pager, pageNum uint32) (uint32, error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return 0, fmt.Errorf("storage: GetNodeMaxKey: %w", err)
	}
	data := page.Data[:]

	switch GetNodeType(data) {
	case NodeLeaf:
		numCells := LeafNodeNumCells(data)
		if numCells == 0 {
			return 0, fmt.Errorf("storage: GetNodeMaxKey: %w: leaf page %d has no cells", ErrCorrupt, pageNum)
		}
		return LeafNodeKey(data, numCells-1), nil
	case NodeInternal:
		return GetNodeMaxKey(pgr, InternalNodeRightChild(data))
	default:
		return 0, fmt.Errorf("storage: GetNodeMaxKey: %w: page %d has unknown node type", ErrCorrupt, pageNum)
	}
}

// updateInternalNodeKey rewrites the cell in parentPageNum that
// points at a subtree keyed by oldKey so it is keyed by newKey
// instead. Called after a child's max key shifts (an insert grew it,
// a delete shrank it) so ancestor keys keep satisfying I2.
//
// If oldKey isn't held as an explicit cell (it was the max key
// reachable only through right_child), there is nothing to rewrite
// and this is a no-op — the parent's own max key is derived on
// demand by GetNodeMaxKey, not cached anywhere above the right child.
func updateInternalNodeKey(pgr *pager.Pager, parentPageNum uint32, oldKey, newKey uint32) error {
	page, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	data := page.Data[:]
	idx := internalNodeFindChildIndex(data, oldKey)
	if idx < InternalNodeNumKeys(data) {
		SetInternalNodeKey(data, idx, newKey)
	}
	return nil
}

// internalNodeFindChild returns the index within node's child cells
// (0..numKeys, where numKeys denotes the right child) whose child
// pointer equals childPageNum.
func internalNodeFindChild(data []byte, childPageNum uint32) uint32 {
	numKeys := InternalNodeNumKeys(data)
	var i uint32
	for i = 0; i < numKeys; i++ {
		if InternalNodeChild(data, i) == childPageNum {
			break
		}
	}
	return i
}
