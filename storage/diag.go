package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/l4zy9uy/btreekv/pager"
)

// PrintConstants writes the node/row layout constants a reader would
// need to make sense of a raw page dump.
func PrintConstants(w io.Writer) {
	fmt.Fprintf(w, "RowSize: %d\n", RowSize)
	fmt.Fprintf(w, "CommonNodeHeaderSize: %d\n", CommonNodeHeaderSize)
	fmt.Fprintf(w, "LeafNodeHeaderSize: %d\n", LeafNodeHeaderSize)
	fmt.Fprintf(w, "LeafNodeCellSize: %d\n", LeafNodeCellSize)
	fmt.Fprintf(w, "LeafNodeSpaceForCells: %d\n", LeafNodeSpaceForCells)
	fmt.Fprintf(w, "LeafNodeMaxCells: %d\n", LeafNodeMaxCells)
}

// PrintTree writes an indented dump of the subtree rooted at
// pageNum, depth-first: each leaf lists its keys, each internal node
// lists its (key, child) cells followed by its right child.
func PrintTree(w io.Writer, pgr *pager.Pager, pageNum uint32, indentLevel uint32) error {
	page, err := pgr.GetPage(pageNum)
	if err != nil {
		return fmt.Errorf("storage: PrintTree: %w", err)
	}
	data := page.Data[:]
	pad := strings.Repeat("  ", int(indentLevel))

	switch GetNodeType(data) {
	case NodeLeaf:
		numCells := LeafNodeNumCells(data)
		fmt.Fprintf(w, "%s- page %d, leaf (size %d)\n", pad, pageNum, numCells)
		for i := uint32(0); i < numCells; i++ {
			fmt.Fprintf(w, "%s  - %d\n", pad, LeafNodeKey(data, i))
		}
	case NodeInternal:
		numKeys := InternalNodeNumKeys(data)
		fmt.Fprintf(w, "%s- page %d, internal (size %d)\n", pad, pageNum, numKeys)
		for i := uint32(0); i < numKeys; i++ {
			child := InternalNodeChild(data, i)
			fmt.Fprintf(w, "%s  - key %d, child %d\n", pad, InternalNodeKey(data, i), child)
			if err := PrintTree(w, pgr, child, indentLevel+1); err != nil {
				return err
			}
		}
		rightChild := InternalNodeRightChild(data)
		fmt.Fprintf(w, "%s  - right child %d\n", pad, rightChild)
		if err := PrintTree(w, pgr, rightChild, indentLevel+1); err != nil {
			return err
		}
	default:
		return fmt.Errorf("storage: PrintTree: %w: page %d has unknown node type", ErrCorrupt, pageNum)
	}
	return nil
}
