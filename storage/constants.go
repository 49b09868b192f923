package storage

import (
	"unsafe"

	"github.com/l4zy9uy/btreekv/pager"
)

// Common node header layout: every page starts with these three
// fields regardless of node kind.
const (
	NodeTypeSize   = uint32(unsafe.Sizeof(uint8(0)))
	NodeTypeOffset = uint32(0)

	IsRootSize   = uint32(unsafe.Sizeof(uint8(0)))
	IsRootOffset = NodeTypeOffset + NodeTypeSize

	ParentPointerSize   = uint32(unsafe.Sizeof(uint32(0)))
	ParentPointerOffset = IsRootOffset + IsRootSize

	CommonNodeHeaderSize = NodeTypeSize + IsRootSize + ParentPointerSize
)

// Leaf node header layout: num_cells then next_leaf, following the
// common header.
const (
	LeafNodeNumCellsSize   = uint32(unsafe.Sizeof(uint32(0)))
	LeafNodeNumCellsOffset = CommonNodeHeaderSize

	LeafNodeNextLeafSize   = uint32(unsafe.Sizeof(uint32(0)))
	LeafNodeNextLeafOffset = LeafNodeNumCellsOffset + LeafNodeNumCellsSize

	LeafNodeHeaderSize = CommonNodeHeaderSize + LeafNodeNumCellsSize + LeafNodeNextLeafSize
)

// Leaf node body layout: (key, row) cells in ascending key order.
const (
	LeafNodeKeySize   = uint32(4)
	LeafNodeKeyOffset = uint32(0)

	LeafNodeValueSize   = uint32(RowSize)
	LeafNodeValueOffset = LeafNodeKeyOffset + LeafNodeKeySize

	LeafNodeCellSize       = LeafNodeKeySize + LeafNodeValueSize
	LeafNodeSpaceForCells  = pager.PageSize - LeafNodeHeaderSize
	LeafNodeMaxCells       = LeafNodeSpaceForCells / LeafNodeCellSize
	LeafNodeRightSplitCount = (LeafNodeMaxCells + 1) / 2
	LeafNodeLeftSplitCount  = (LeafNodeMaxCells + 1) - LeafNodeRightSplitCount
	LeafNodeMinCells        = LeafNodeRightSplitCount
)

// Internal node header layout: num_keys then right_child, following
// the common header.
const (
	InternalNodeNumKeysSize   = uint32(unsafe.Sizeof(uint32(0)))
	InternalNodeNumKeysOffset = CommonNodeHeaderSize

	InternalNodeRightChildSize   = uint32(unsafe.Sizeof(uint32(0)))
	InternalNodeRightChildOffset = InternalNodeNumKeysOffset + InternalNodeNumKeysSize

	InternalNodeHeaderSize = CommonNodeHeaderSize + InternalNodeNumKeysSize + InternalNodeRightChildSize
)

// Internal node body layout: (child, key) cells. Kept intentionally
// tiny so tests exercise multi-level splits without huge key counts.
const (
	InternalNodeChildSize = uint32(4)
	InternalNodeKeySize   = uint32(4)
	InternalNodeCellSize  = InternalNodeChildSize + InternalNodeKeySize

	InternalNodeMaxCells       = uint32(3)
	InternalNodeLeftSplitCount = uint32(2)
	InternalNodeRightSplitCount = (InternalNodeMaxCells + 1) - InternalNodeLeftSplitCount
	InternalNodeMinKeys         = uint32(1)
)

type NodeType uint8

const (
	NodeInternal NodeType = 0
	NodeLeaf     NodeType = 1
)
