package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// LeafNodeInsert writes (key, row) into the leaf at pageNum at
// cellNum, splitting the leaf first if it has no room.
func LeafNodeInsert(pgr *pager.Pager, pageNum, cellNum, key uint32, row Row) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return fmt.Errorf("storage: LeafNodeInsert: %w", err)
	}
	data := page.Data[:]

	if LeafNodeNumCells(data) >= LeafNodeMaxCells {
		return leafNodeSplitAndInsert(pgr, pageNum, cellNum, key, row)
	}

	numCells := LeafNodeNumCells(data)
	if cellNum < numCells {
		for i := numCells; i > cellNum; i-- {
			copy(LeafNodeCell(data, i), LeafNodeCell(data, i-1))
		}
	}
	SetLeafNodeNumCells(data, numCells+1)
	SetLeafNodeKey(data, cellNum, key)
	return SerializeRow(row, LeafNodeValue(data, cellNum))
}

// leafNodeSplitAndInsert splits a full leaf into old (left) and a
// freshly allocated new (right) node, distributing all existing
// cells plus the incoming one evenly between them, then wires the
// new leaf into the tree above.
func leafNodeSplitAndInsert(pgr *pager.Pager, oldPageNum, cellNum, key uint32, row Row) error {
	oldPage, err := pgr.GetPage(oldPageNum)
	if err != nil {
		return err
	}
	oldData := oldPage.Data[:]
	oldMax, err := GetNodeMaxKey(pgr, oldPageNum)
	if err != nil {
		return err
	}

	newPageNum := pgr.GetUnusedPageNum()
	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return err
	}
	newData := newPage.Data[:]
	InitializeLeafNode(newData)
	SetNodeParent(newData, NodeParent(oldData))
	SetLeafNodeNextLeaf(newData, LeafNodeNextLeaf(oldData))
	SetLeafNodeNextLeaf(oldData, newPageNum)

	// Snapshot old's cells before overwriting them in place: walking
	// from the highest index down lets each destination slot be
	// filled before its source is clobbered.
	oldCells := make([][]byte, LeafNodeMaxCells)
	for i := uint32(0); i < LeafNodeMaxCells; i++ {
		buf := make([]byte, LeafNodeCellSize)
		copy(buf, LeafNodeCell(oldData, i))
		oldCells[i] = buf
	}

	for i := int32(LeafNodeMaxCells); i >= 0; i-- {
		var destData []byte
		if uint32(i) >= LeafNodeLeftSplitCount {
			destData = newData
		} else {
			destData = oldData
		}
		indexWithinNode := uint32(i) % LeafNodeLeftSplitCount

		switch {
		case uint32(i) == cellNum:
			SetLeafNodeKey(destData, indexWithinNode, key)
			if err := SerializeRow(row, LeafNodeValue(destData, indexWithinNode)); err != nil {
				return err
			}
		case uint32(i) > cellNum:
			copy(LeafNodeCell(destData, indexWithinNode), oldCells[i-1])
		default:
			copy(LeafNodeCell(destData, indexWithinNode), oldCells[i])
		}
	}

	SetLeafNodeNumCells(oldData, LeafNodeLeftSplitCount)
	SetLeafNodeNumCells(newData, LeafNodeRightSplitCount)

	if IsNodeRoot(oldData) {
		return CreateNewRoot(pgr, oldPageNum, newPageNum)
	}

	parentPageNum := NodeParent(oldData)
	newMax, err := GetNodeMaxKey(pgr, oldPageNum)
	if err != nil {
		return err
	}
	if err := updateInternalNodeKey(pgr, parentPageNum, oldMax, newMax); err != nil {
		return err
	}
	return InternalNodeInsert(pgr, parentPageNum, newPageNum)
}

// CreateNewRoot splits the root: the old root's contents are copied
// to a freshly allocated left child, and the root page itself is
// rewritten in place as a two-child internal node. The root always
// lives at rootPageNum (invariant I5), so the root page number never
// changes across a split.
func CreateNewRoot(pgr *pager.Pager, rootPageNum, rightChildPageNum uint32) error {
	rootPage, err := pgr.GetPage(rootPageNum)
	if err != nil {
		return err
	}
	rightChildPage, err := pgr.GetPage(rightChildPageNum)
	if err != nil {
		return err
	}

	leftChildPageNum := pgr.GetUnusedPageNum()
	leftChildPage, err := pgr.GetPage(leftChildPageNum)
	if err != nil {
		return err
	}

	leftChildPage.Data = rootPage.Data
	SetNodeRoot(leftChildPage.Data[:], false)

	InitializeInternalNode(rootPage.Data[:])
	SetNodeRoot(rootPage.Data[:], true)
	SetInternalNodeNumKeys(rootPage.Data[:], 1)
	SetInternalNodeChild(rootPage.Data[:], 0, leftChildPageNum)
	leftMax, err := GetNodeMaxKey(pgr, leftChildPageNum)
	if err != nil {
		return err
	}
	SetInternalNodeKey(rootPage.Data[:], 0, leftMax)
	SetInternalNodeRightChild(rootPage.Data[:], rightChildPageNum)
	SetNodeParent(leftChildPage.Data[:], rootPageNum)
	SetNodeParent(rightChildPage.Data[:], rootPageNum)

	if GetNodeType(leftChildPage.Data[:]) != NodeInternal {
		return nil
	}
	numKeys := InternalNodeNumKeys(leftChildPage.Data[:])
	for i := uint32(0); i < numKeys; i++ {
		childPageNum := InternalNodeChild(leftChildPage.Data[:], i)
		childPage, err := pgr.GetPage(childPageNum)
		if err != nil {
			return err
		}
		SetNodeParent(childPage.Data[:], leftChildPageNum)
	}
	rightmostPageNum := InternalNodeRightChild(leftChildPage.Data[:])
	rightmostPage, err := pgr.GetPage(rightmostPageNum)
	if err != nil {
		return err
	}
	SetNodeParent(rightmostPage.Data[:], leftChildPageNum)
	return nil
}

// InternalNodeInsert adds a child/key cell to parent for
// childPageNum, splitting parent first if it is full.
func InternalNodeInsert(pgr *pager.Pager, parentPageNum, childPageNum uint32) error {
	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parentData := parentPage.Data[:]
	originalNumKeys := InternalNodeNumKeys(parentData)

	if originalNumKeys >= InternalNodeMaxCells {
		oldMax, err := GetNodeMaxKey(pgr, parentPageNum)
		if err != nil {
			return err
		}
		newPageNum, err := internalNodeSplit(pgr, parentPageNum, childPageNum)
		if err != nil {
			return err
		}

		if IsNodeRoot(parentData) {
			return CreateNewRoot(pgr, parentPageNum, newPageNum)
		}

		grandparentPageNum := NodeParent(parentData)
		newMax, err := GetNodeMaxKey(pgr, parentPageNum)
		if err != nil {
			return err
		}
		if err := updateInternalNodeKey(pgr, grandparentPageNum, oldMax, newMax); err != nil {
			return err
		}
		return InternalNodeInsert(pgr, grandparentPageNum, newPageNum)
	}

	childMaxKey, err := GetNodeMaxKey(pgr, childPageNum)
	if err != nil {
		return err
	}
	index := internalNodeFindChildIndex(parentData, childMaxKey)

	SetInternalNodeNumKeys(parentData, originalNumKeys+1)
	rightChildPageNum := InternalNodeRightChild(parentData)
	rightChildMax, err := GetNodeMaxKey(pgr, rightChildPageNum)
	if err != nil {
		return err
	}

	if childMaxKey > rightChildMax {
		SetInternalNodeChild(parentData, originalNumKeys, rightChildPageNum)
		SetInternalNodeKey(parentData, originalNumKeys, rightChildMax)
		SetInternalNodeRightChild(parentData, childPageNum)
	} else {
		for i := originalNumKeys; i > index; i-- {
			copy(internalNodeCellSlice(parentData, i), internalNodeCellSlice(parentData, i-1))
		}
		SetInternalNodeChild(parentData, index, childPageNum)
		SetInternalNodeKey(parentData, index, childMaxKey)
	}
	return nil
}

func internalNodeCellSlice(data []byte, cellNum uint32) []byte {
	off := internalNodeCellOffset(cellNum)
	return data[off : off+InternalNodeCellSize]
}

// internalNodeSplit splits a full internal node (parentPageNum, the
// "old" node) to make room for childPageNum, returning the page
// number of the freshly allocated sibling. The split point is found
// by locating where childPageNum's max key falls among parent's
// existing keys; if that lands past the end, the split actually
// displaces parent's former right child rather than childPageNum
// itself, since the incoming child may become the new right child.
func internalNodeSplit(pgr *pager.Pager, parentPageNum, childPageNum uint32) (uint32, error) {
	oldPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return 0, err
	}
	oldData := oldPage.Data[:]
	oldRightChildPageNum := InternalNodeRightChild(oldData)

	childMaxKey, err := GetNodeMaxKey(pgr, childPageNum)
	if err != nil {
		return 0, err
	}
	index := internalNodeFindChildIndex(oldData, childMaxKey)

	newPageNum := pgr.GetUnusedPageNum()
	newPage, err := pgr.GetPage(newPageNum)
	if err != nil {
		return 0, err
	}
	newData := newPage.Data[:]
	InitializeInternalNode(newData)
	SetNodeParent(newData, NodeParent(oldData))

	rightChildSplit := false
	var rightChildPageNum, rightChildMaxKey uint32
	if index == InternalNodeMaxCells {
		rightChildPageNum = InternalNodeRightChild(oldData)
		rightChildMaxKey, err = GetNodeMaxKey(pgr, rightChildPageNum)
		if err != nil {
			return 0, err
		}
		if childMaxKey > rightChildMaxKey {
			rightChildSplit = true
		}
	}

	// Snapshot old's cells before overwriting them in place.
	oldCells := make([][]byte, InternalNodeMaxCells)
	for i := uint32(0); i < InternalNodeMaxCells; i++ {
		buf := make([]byte, InternalNodeCellSize)
		copy(buf, internalNodeCellSlice(oldData, i))
		oldCells[i] = buf
	}

	// Pre-set both counts so the child-pointer fixups below see
	// num_keys boundaries consistent with where cells are landing;
	// both get overwritten to their true final values once the loop
	// (and the old-node right-child promotion) is done.
	SetInternalNodeNumKeys(oldData, InternalNodeLeftSplitCount)
	SetInternalNodeNumKeys(newData, InternalNodeRightSplitCount)

	for i := int32(InternalNodeMaxCells); i >= 0; i-- {
		var destData []byte
		var destPageNum uint32
		if uint32(i) >= InternalNodeLeftSplitCount {
			destData = newData
			destPageNum = newPageNum
		} else {
			destData = oldData
			destPageNum = parentPageNum
		}
		indexWithinNode := uint32(i) % InternalNodeLeftSplitCount

		switch {
		case uint32(i) == index:
			if !rightChildSplit {
				SetInternalNodeChild(destData, indexWithinNode, childPageNum)
				SetInternalNodeKey(destData, indexWithinNode, childMaxKey)
			} else {
				SetInternalNodeChild(destData, indexWithinNode, rightChildPageNum)
				SetInternalNodeKey(destData, indexWithinNode, rightChildMaxKey)
			}
		case uint32(i) > index:
			copy(internalNodeCellSlice(destData, indexWithinNode), oldCells[i-1])
		default:
			copy(internalNodeCellSlice(destData, indexWithinNode), oldCells[i])
		}

		movedChildPageNum := InternalNodeChild(destData, indexWithinNode)
		movedChildPage, err := pgr.GetPage(movedChildPageNum)
		if err != nil {
			return 0, err
		}
		SetNodeParent(movedChildPage.Data[:], destPageNum)
	}

	// The cell at InternalNodeLeftSplitCount-1 becomes old's new
	// right child, dropping its key (it is now implicit).
	SetInternalNodeRightChild(oldData, InternalNodeChild(oldData, InternalNodeLeftSplitCount-1))
	SetInternalNodeNumKeys(oldData, InternalNodeLeftSplitCount-1)
	SetInternalNodeNumKeys(newData, InternalNodeRightSplitCount)

	if rightChildSplit {
		SetInternalNodeRightChild(newData, childPageNum)
		childPage, err := pgr.GetPage(childPageNum)
		if err != nil {
			return 0, err
		}
		SetNodeParent(childPage.Data[:], newPageNum)
	} else {
		SetInternalNodeRightChild(newData, oldRightChildPageNum)
		oldRightChildPage, err := pgr.GetPage(oldRightChildPageNum)
		if err != nil {
			return 0, err
		}
		SetNodeParent(oldRightChildPage.Data[:], newPageNum)
	}

	return newPageNum, nil
}
