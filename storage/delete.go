package storage

import (
	"fmt"

	"github.com/l4zy9uy/btreekv/pager"
)

// LeafNodeDelete removes the cell at cellNum from the leaf at
// pageNum, then repairs the tree above: the parent's cached max key
// is rewritten if the leaf's own max key shrank, and if the leaf fell
// below LeafNodeMinCells it is merged with (or rebalanced against) a
// sibling.
func LeafNodeDelete(pgr *pager.Pager, pageNum, cellNum uint32) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return err
	}
	data := page.Data[:]
	numCells := LeafNodeNumCells(data)
	oldMax, err := GetNodeMaxKey(pgr, pageNum)
	if err != nil {
		return err
	}

	for i := cellNum + 1; i < numCells; i++ {
		copy(LeafNodeCell(data, i-1), LeafNodeCell(data, i))
	}
	SetLeafNodeNumCells(data, numCells-1)
	newMax, err := GetNodeMaxKey(pgr, pageNum)
	if err != nil && numCells-1 > 0 {
		return err
	}

	if IsNodeRoot(data) {
		return nil
	}

	parentPageNum := NodeParent(data)
	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parentData := parentPage.Data[:]
	childIndex := internalNodeFindChild(parentData, pageNum)
	numKeys := InternalNodeNumKeys(parentData)

	if numCells-1 > 0 && oldMax != newMax {
		SetInternalNodeKey(parentData, childIndex, newMax)
	}

	if numCells-1 >= LeafNodeMinCells {
		return nil
	}

	// Merge with (or rebalance against) a sibling: prefer the right
	// sibling, falling back to the left when this leaf is already the
	// rightmost child.
	if childIndex >= numKeys {
		childIndex--
	}
	split, err := NodeMergeThenSplit(pgr, parentPageNum, childIndex, childIndex+1)
	if err != nil {
		return err
	}
	if !split {
		return InternalNodeDelete(pgr, parentPageNum, childIndex)
	}
	return nil
}

// NodeMergeThenSplit merges the children at leftChildIndex and
// rightChildIndex under node at pageNum, redistributing their
// combined contents. If the merged total still fits under one node's
// minimum occupancy, the right child is folded entirely into the
// left and removed (returns split=false, and the caller must then
// remove the now-dangling cell via InternalNodeDelete). Otherwise the
// combined contents are split evenly back across both children
// (returns split=true) and node's key for the left child is rewritten
// to the left child's new max key.
func NodeMergeThenSplit(pgr *pager.Pager, pageNum, leftChildIndex, rightChildIndex uint32) (bool, error) {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return false, err
	}
	data := page.Data[:]
	leftChildPageNum := InternalNodeChild(data, leftChildIndex)
	rightChildPageNum := InternalNodeChild(data, rightChildIndex)
	leftPage, err := pgr.GetPage(leftChildPageNum)
	if err != nil {
		return false, err
	}
	rightPage, err := pgr.GetPage(rightChildPageNum)
	if err != nil {
		return false, err
	}
	leftData := leftPage.Data[:]
	rightData := rightPage.Data[:]

	if GetNodeType(leftData) == NodeLeaf {
		return mergeLeafChildren(pgr, data, leftChildPageNum, rightChildIndex, leftData, rightData)
	}
	return mergeInternalChildren(pgr, data, leftChildPageNum, rightChildPageNum, rightChildIndex, leftData, rightData)
}

func mergeLeafChildren(pgr *pager.Pager, parentData []byte, leftChildPageNum, rightChildIndex uint32, leftData, rightData []byte) (bool, error) {
	leftNumCells := LeafNodeNumCells(leftData)
	rightNumCells := LeafNodeNumCells(rightData)
	leftSplit := (leftNumCells + rightNumCells) / 2
	rightSplit := (leftNumCells + rightNumCells) - leftSplit

	if leftSplit < LeafNodeMinCells {
		for i := uint32(0); i < rightNumCells; i++ {
			copy(LeafNodeCell(leftData, i+leftNumCells), LeafNodeCell(rightData, i))
		}
		SetLeafNodeNumCells(leftData, leftNumCells+rightNumCells)
		SetInternalNodeChild(parentData, rightChildIndex, leftChildPageNum)
		SetLeafNodeNextLeaf(leftData, LeafNodeNextLeaf(rightData))
		return false, nil
	}

	if leftNumCells < leftSplit {
		n := leftSplit - leftNumCells
		for i := uint32(0); i < n; i++ {
			copy(LeafNodeCell(leftData, leftNumCells+i), LeafNodeCell(rightData, i))
		}
		for i := n; i < rightNumCells; i++ {
			copy(LeafNodeCell(rightData, i-n), LeafNodeCell(rightData, i))
		}
	} else {
		n := leftNumCells - leftSplit
		for i := int32(rightNumCells) - 1; i >= 0; i-- {
			copy(LeafNodeCell(rightData, uint32(i)+n), LeafNodeCell(rightData, uint32(i)))
		}
		for i := uint32(0); i < n; i++ {
			copy(LeafNodeCell(rightData, i), LeafNodeCell(leftData, leftSplit+i))
		}
	}
	SetLeafNodeNumCells(leftData, leftSplit)
	SetLeafNodeNumCells(rightData, rightSplit)
	newMax := LeafNodeKey(leftData, leftSplit-1)
	SetInternalNodeKey(parentData, rightChildIndex-1, newMax)
	return true, nil
}

func mergeInternalChildren(pgr *pager.Pager, parentData []byte, leftChildPageNum, rightChildPageNum, rightChildIndex uint32, leftData, rightData []byte) (bool, error) {
	leftNumKeys := InternalNodeNumKeys(leftData)
	rightNumKeys := InternalNodeNumKeys(rightData)
	leftSplit := (leftNumKeys + rightNumKeys) / 2
	rightSplit := (leftNumKeys + rightNumKeys) - leftSplit

	// The gap between left's rightmost subtree and right's first key
	// is bridged by a "virtual key": the max key under left's own
	// right_child, which becomes an explicit cell once left's
	// right_child stops being left's rightmost subtree.
	virtualChildPageNum := InternalNodeRightChild(leftData)
	virtualKey, err := GetNodeMaxKey(pgr, virtualChildPageNum)
	if err != nil {
		return false, err
	}

	reparent := func(childPageNum, newParent uint32) error {
		childPage, err := pgr.GetPage(childPageNum)
		if err != nil {
			return err
		}
		SetNodeParent(childPage.Data[:], newParent)
		return nil
	}

	if leftSplit < InternalNodeMinKeys {
		SetInternalNodeRightChild(leftData, InternalNodeRightChild(rightData))
		SetInternalNodeNumKeys(leftData, leftNumKeys+1+rightNumKeys)
		SetInternalNodeKey(leftData, leftNumKeys, virtualKey)
		SetInternalNodeChild(leftData, leftNumKeys, virtualChildPageNum)
		for i := uint32(0); i < rightNumKeys; i++ {
			childPageNum := InternalNodeChild(rightData, i)
			SetInternalNodeKey(leftData, leftNumKeys+1+i, InternalNodeKey(rightData, i))
			SetInternalNodeChild(leftData, leftNumKeys+1+i, childPageNum)
			if err := reparent(childPageNum, leftChildPageNum); err != nil {
				return false, err
			}
		}
		if err := reparent(InternalNodeRightChild(rightData), leftChildPageNum); err != nil {
			return false, err
		}
		SetInternalNodeChild(parentData, rightChildIndex, leftChildPageNum)
		return false, nil
	}

	if leftNumKeys < leftSplit {
		SetInternalNodeNumKeys(leftData, leftSplit)
		SetInternalNodeKey(leftData, leftNumKeys, virtualKey)
		SetInternalNodeChild(leftData, leftNumKeys, virtualChildPageNum)
		n := leftSplit - leftNumKeys
		for i := uint32(0); i < n; i++ {
			key := InternalNodeKey(rightData, i)
			childPageNum := InternalNodeChild(rightData, i)
			if i+1 == n {
				SetInternalNodeRightChild(leftData, childPageNum)
			} else {
				SetInternalNodeChild(leftData, leftNumKeys+i+1, childPageNum)
				SetInternalNodeKey(leftData, leftNumKeys+i+1, key)
			}
			if err := reparent(childPageNum, leftChildPageNum); err != nil {
				return false, err
			}
		}
		for i := n; i < rightNumKeys; i++ {
			copy(internalNodeCellSlice(rightData, i-n), internalNodeCellSlice(rightData, i))
		}
		SetInternalNodeNumKeys(rightData, rightSplit)
	} else {
		SetInternalNodeNumKeys(rightData, rightSplit)
		n := leftNumKeys - leftSplit
		for i := int32(rightNumKeys) - 1; i >= 0; i-- {
			copy(internalNodeCellSlice(rightData, uint32(i)+n), internalNodeCellSlice(rightData, uint32(i)))
		}
		for i := uint32(0); i < n; i++ {
			var childPageNum uint32
			if i == n-1 {
				SetInternalNodeKey(rightData, i, virtualKey)
				SetInternalNodeChild(rightData, i, virtualChildPageNum)
				childPageNum = virtualChildPageNum
			} else {
				copy(internalNodeCellSlice(rightData, i), internalNodeCellSlice(leftData, leftSplit+1+i))
				childPageNum = InternalNodeChild(rightData, i)
			}
			if err := reparent(childPageNum, rightChildPageNum); err != nil {
				return false, err
			}
		}
		newRightChildPageNum := InternalNodeChild(leftData, leftSplit)
		SetInternalNodeRightChild(leftData, newRightChildPageNum)
		SetInternalNodeNumKeys(leftData, leftSplit)
	}

	newLeftMax, err := GetNodeMaxKey(pgr, leftChildPageNum)
	if err != nil {
		return false, err
	}
	SetInternalNodeKey(parentData, rightChildIndex-1, newLeftMax)
	return true, nil
}

// InternalNodeDelete removes the cell at childIndex from the internal
// node at pageNum, then, if the node fell below InternalNodeMinKeys,
// repairs it: the root collapses by absorbing its one remaining
// child; any other node merges-or-rebalances against a sibling the
// same way LeafNodeDelete does, recursing upward if that merge
// emptied a cell from the grandparent too.
func InternalNodeDelete(pgr *pager.Pager, pageNum, childIndex uint32) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return err
	}
	data := page.Data[:]
	numKeys := InternalNodeNumKeys(data)
	for i := childIndex + 1; i < numKeys; i++ {
		copy(internalNodeCellSlice(data, i-1), internalNodeCellSlice(data, i))
	}
	SetInternalNodeNumKeys(data, numKeys-1)

	if numKeys-1 >= InternalNodeMinKeys {
		return nil
	}

	if IsNodeRoot(data) {
		if numKeys-1 > 0 {
			return nil
		}
		rightChildPageNum := InternalNodeRightChild(data)
		rightChildPage, err := pgr.GetPage(rightChildPageNum)
		if err != nil {
			return err
		}
		rightChildData := rightChildPage.Data[:]

		if GetNodeType(rightChildData) == NodeLeaf {
			numCells := LeafNodeNumCells(rightChildData)
			cells := make([]byte, numCells*LeafNodeCellSize)
			for i := uint32(0); i < numCells; i++ {
				copy(cells[i*LeafNodeCellSize:], LeafNodeCell(rightChildData, i))
			}
			InitializeLeafNode(data)
			SetNodeRoot(data, true)
			for i := uint32(0); i < numCells; i++ {
				copy(LeafNodeCell(data, i), cells[i*LeafNodeCellSize:(i+1)*LeafNodeCellSize])
			}
			SetLeafNodeNumCells(data, numCells)
		} else {
			childNumKeys := InternalNodeNumKeys(rightChildData)
			for i := uint32(0); i < childNumKeys; i++ {
				childPageNum := InternalNodeChild(rightChildData, i)
				if err := func() error {
					childPage, err := pgr.GetPage(childPageNum)
					if err != nil {
						return err
					}
					SetNodeParent(childPage.Data[:], pageNum)
					return nil
				}(); err != nil {
					return err
				}
			}
			rightGrandchildPageNum := InternalNodeRightChild(rightChildData)
			rightKeys := make([]uint32, childNumKeys)
			rightChildren := make([]uint32, childNumKeys)
			for i := uint32(0); i < childNumKeys; i++ {
				rightKeys[i] = InternalNodeKey(rightChildData, i)
				rightChildren[i] = InternalNodeChild(rightChildData, i)
			}
			InitializeInternalNode(data)
			SetNodeRoot(data, true)
			SetInternalNodeNumKeys(data, childNumKeys)
			for i := uint32(0); i < childNumKeys; i++ {
				SetInternalNodeChild(data, i, rightChildren[i])
				SetInternalNodeKey(data, i, rightKeys[i])
			}
			SetInternalNodeRightChild(data, rightGrandchildPageNum)
			if rgp, err := pgr.GetPage(rightGrandchildPageNum); err == nil {
				SetNodeParent(rgp.Data[:], pageNum)
			} else {
				return err
			}
		}
		return nil
	}

	parentPageNum := NodeParent(data)
	parentPage, err := pgr.GetPage(parentPageNum)
	if err != nil {
		return err
	}
	parentData := parentPage.Data[:]
	siblingIndex := internalNodeFindChild(parentData, pageNum)
	parentNumKeys := InternalNodeNumKeys(parentData)
	if siblingIndex >= parentNumKeys {
		siblingIndex--
	}
	split, err := NodeMergeThenSplit(pgr, parentPageNum, siblingIndex, siblingIndex+1)
	if err != nil {
		return fmt.Errorf("storage: InternalNodeDelete: %w", err)
	}
	if !split {
		return InternalNodeDelete(pgr, parentPageNum, siblingIndex)
	}
	return nil
}
