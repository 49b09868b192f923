package storage

import "encoding/binary"

// This file is the node codec: typed accessors over a raw page
// buffer. Nothing here touches the pager or the file — every
// function is a pure read or write of a fixed offset.

func GetNodeType(data []byte) NodeType {
	return NodeType(data[NodeTypeOffset])
}

func SetNodeType(data []byte, t NodeType) {
	data[NodeTypeOffset] = byte(t)
}

func IsNodeRoot(data []byte) bool {
	return data[IsRootOffset] != 0
}

func SetNodeRoot(data []byte, isRoot bool) {
	if isRoot {
		data[IsRootOffset] = 1
	} else {
		data[IsRootOffset] = 0
	}
}

func NodeParent(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[ParentPointerOffset : ParentPointerOffset+ParentPointerSize])
}

func SetNodeParent(data []byte, parent uint32) {
	binary.LittleEndian.PutUint32(data[ParentPointerOffset:ParentPointerOffset+ParentPointerSize], parent)
}

// --- Leaf node body ---

func LeafNodeNumCells(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[LeafNodeNumCellsOffset : LeafNodeNumCellsOffset+LeafNodeNumCellsSize])
}

func SetLeafNodeNumCells(data []byte, n uint32) {
	binary.LittleEndian.PutUint32(data[LeafNodeNumCellsOffset:LeafNodeNumCellsOffset+LeafNodeNumCellsSize], n)
}

func LeafNodeNextLeaf(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[LeafNodeNextLeafOffset : LeafNodeNextLeafOffset+LeafNodeNextLeafSize])
}

func SetLeafNodeNextLeaf(data []byte, next uint32) {
	binary.LittleEndian.PutUint32(data[LeafNodeNextLeafOffset:LeafNodeNextLeafOffset+LeafNodeNextLeafSize], next)
}

func leafNodeCellOffset(cellNum uint32) uint32 {
	return LeafNodeHeaderSize + cellNum*LeafNodeCellSize
}

func LeafNodeCell(data []byte, cellNum uint32) []byte {
	off := leafNodeCellOffset(cellNum)
	return data[off : off+LeafNodeCellSize]
}

func LeafNodeKey(data []byte, cellNum uint32) uint32 {
	off := leafNodeCellOffset(cellNum) + LeafNodeKeyOffset
	return binary.LittleEndian.Uint32(data[off : off+LeafNodeKeySize])
}

func SetLeafNodeKey(data []byte, cellNum uint32, key uint32) {
	off := leafNodeCellOffset(cellNum) + LeafNodeKeyOffset
	binary.LittleEndian.PutUint32(data[off:off+LeafNodeKeySize], key)
}

func LeafNodeValue(data []byte, cellNum uint32) []byte {
	off := leafNodeCellOffset(cellNum) + LeafNodeValueOffset
	return data[off : off+LeafNodeValueSize]
}

func InitializeLeafNode(data []byte) {
	SetNodeType(data, NodeLeaf)
	SetNodeRoot(data, false)
	SetLeafNodeNumCells(data, 0)
	SetLeafNodeNextLeaf(data, 0)
}

// --- Internal node body ---

func InternalNodeNumKeys(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[InternalNodeNumKeysOffset : InternalNodeNumKeysOffset+InternalNodeNumKeysSize])
}

func SetInternalNodeNumKeys(data []byte, n uint32) {
	binary.LittleEndian.PutUint32(data[InternalNodeNumKeysOffset:InternalNodeNumKeysOffset+InternalNodeNumKeysSize], n)
}

func InternalNodeRightChild(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[InternalNodeRightChildOffset : InternalNodeRightChildOffset+InternalNodeRightChildSize])
}

func SetInternalNodeRightChild(data []byte, child uint32) {
	binary.LittleEndian.PutUint32(data[InternalNodeRightChildOffset:InternalNodeRightChildOffset+InternalNodeRightChildSize], child)
}

func internalNodeCellOffset(cellNum uint32) uint32 {
	return InternalNodeHeaderSize + cellNum*InternalNodeCellSize
}

func InternalNodeChild(data []byte, childNum uint32) uint32 {
	numKeys := InternalNodeNumKeys(data)
	if childNum == numKeys {
		return InternalNodeRightChild(data)
	}
	off := internalNodeCellOffset(childNum)
	return binary.LittleEndian.Uint32(data[off : off+InternalNodeChildSize])
}

func SetInternalNodeChild(data []byte, childNum uint32, child uint32) {
	numKeys := InternalNodeNumKeys(data)
	if childNum == numKeys {
		SetInternalNodeRightChild(data, child)
		return
	}
	off := internalNodeCellOffset(childNum)
	binary.LittleEndian.PutUint32(data[off:off+InternalNodeChildSize], child)
}

func InternalNodeKey(data []byte, keyNum uint32) uint32 {
	off := internalNodeCellOffset(keyNum) + InternalNodeChildSize
	return binary.LittleEndian.Uint32(data[off : off+InternalNodeKeySize])
}

func SetInternalNodeKey(data []byte, keyNum uint32, key uint32) {
	off := internalNodeCellOffset(keyNum) + InternalNodeChildSize
	binary.LittleEndian.PutUint32(data[off:off+InternalNodeKeySize], key)
}

func InitializeInternalNode(data []byte) {
	SetNodeType(data, NodeInternal)
	SetNodeRoot(data, false)
	SetInternalNodeNumKeys(data, 0)
}
