// Package scan evaluates a compiled rowmatch.RowMatchNode plan tree
// against a physical bitmap representation of which documents set which
// row's bit -- the scan mechanics the core deliberately leaves
// unspecified.
package scan

import (
	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/sigrowio/sigindex"
)

// RowSignatures holds one roaring64 bitmap per RowId: the set of
// document IDs whose signature has that row's bit set.
type RowSignatures struct {
	bitmaps map[sigindex.RowId]*roaring64.Bitmap
}

// NewRowSignatures returns an empty RowSignatures.
func NewRowSignatures() *RowSignatures {
	return &RowSignatures{bitmaps: make(map[sigindex.RowId]*roaring64.Bitmap)}
}

// Set replaces the bitmap for row with bm.
func (s *RowSignatures) Set(row sigindex.RowId, bm *roaring64.Bitmap) {
	s.bitmaps[row] = bm
}

// AddDocument marks docID as having row's bit set, creating the row's
// bitmap on first use.
func (s *RowSignatures) AddDocument(row sigindex.RowId, docID uint64) {
	bm, ok := s.bitmaps[row]
	if !ok {
		bm = roaring64.New()
		s.bitmaps[row] = bm
	}
	bm.Add(docID)
}

// Get returns row's bitmap, or an empty bitmap if the row was never
// populated.
func (s *RowSignatures) Get(row sigindex.RowId) *roaring64.Bitmap {
	if bm, ok := s.bitmaps[row]; ok {
		return bm
	}
	return roaring64.New()
}
