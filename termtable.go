// Package sigindex implements the term table and treatment layer of a
// signature-file search index: the map from a term to the signature rows
// that represent it, and the policy deciding how many rows of which rank
// each term gets.
package sigindex

import (
	"fmt"

	"github.com/sigrowio/sigindex/errs"
	"github.com/sigrowio/sigindex/internal/assert"
)

// TermTable is a persistent map from Term to a sequence of RowIds. It is
// built once through an ordered protocol (OpenTerm/AddRowId/Close*,
// SetRowCounts, Seal) and then becomes a read-only structure safe for
// unlimited concurrent readers.
//
// Every mutator panics if called after Seal, and every query panics if
// called before Seal -- both are lifecycle violations (a caller bug), not
// recoverable data errors. CloseTerm's DuplicateTerm case is the one
// build-time failure that IS a recoverable data error: it returns a plain
// error and leaves the table exactly as it was before the call.
type TermTable struct {
	termHashToRows map[uint64]PackedRowIdSequence
	adhocRecipes   [MaxIdfX10Value + 1][MaxGramSize + 1]PackedRowIdSequence
	rowIds         []RowId

	explicitRowCounts [MaxRank + 1]uint64
	adhocRowCounts    [MaxRank + 1]uint64
	sharedRowCounts   [MaxRank + 1]uint64
	adhocBase         [MaxRank + 1]uint64
	factRowCount      uint64

	start              uint64
	inTerm             bool
	setRowCountsCalled bool
	sealed             bool
}

// NewTermTable creates an empty table in the AcceptingRows state.
func NewTermTable() *TermTable {
	return &TermTable{
		termHashToRows: make(map[uint64]PackedRowIdSequence),
	}
}

func (t *TermTable) requireSealed() {
	assert.PanicIf(!t.sealed, "termtable: %v", errs.ErrNotSealed)
}

func (t *TermTable) requireNotSealed() {
	assert.PanicIf(t.sealed, "termtable: %v", errs.ErrSealed)
}

func (t *TermTable) requireInTerm() {
	assert.PanicIf(!t.inTerm, "termtable: OpenTerm must precede AddRowId/Close*")
}

func (t *TermTable) requireNotInTerm() {
	assert.PanicIf(t.inTerm, "termtable: a term is already open, close it first")
}

// OpenTerm begins recording the RowIds for one term. It is illegal to call
// while another term is open or after Seal.
func (t *TermTable) OpenTerm() {
	t.requireNotSealed()
	t.requireNotInTerm()
	t.start = uint64(len(t.rowIds))
	t.inTerm = true
}

// AddRowId appends id to the table's row-id buffer. Legal only between
// OpenTerm and the terminating Close*.
func (t *TermTable) AddRowId(id RowId) {
	t.requireNotSealed()
	t.requireInTerm()
	t.rowIds = append(t.rowIds, id)
}

// CloseTerm closes the currently open term as an explicit term, inserting
// hash -> the RowIds added since OpenTerm into the explicit hash map.
//
// If hash already has an explicit entry, this returns ErrDuplicateTerm and
// leaves termHashToRows untouched; the rows added since OpenTerm remain in
// the row-id buffer but are unreferenced by any map entry, so they are not
// observable through GetRows.
func (t *TermTable) CloseTerm(hash uint64) error {
	t.requireNotSealed()
	t.requireInTerm()
	defer func() { t.inTerm = false }()

	if _, exists := t.termHashToRows[hash]; exists {
		LogErr("term hash %#x already closed as an explicit term\n", hash)
		return fmt.Errorf("sigindex: term hash %#x: %w", hash, errs.ErrDuplicateTerm)
	}
	t.termHashToRows[hash] = PackedRowIdSequence{
		Start: uint32(t.start),
		End:   uint32(len(t.rowIds)),
		Kind:  KindExplicit,
	}
	return nil
}

// CloseAdhocTerm closes the currently open term as the fallback recipe for
// (idfX10, gramSize), storing the RowIds added since OpenTerm into the
// adhoc recipe table. A prior recipe at the same (idfX10, gramSize) is
// silently overwritten: this is documented, intentional last-write-wins
// behavior, not a duplicate check.
func (t *TermTable) CloseAdhocTerm(idfX10, gramSize int) {
	t.requireNotSealed()
	t.requireInTerm()
	defer func() { t.inTerm = false }()

	idf := clampInt(idfX10, 0, MaxIdfX10Value)
	gram := clampInt(gramSize, 1, MaxGramSize)
	t.adhocRecipes[idf][gram] = PackedRowIdSequence{
		Start: uint32(t.start),
		End:   uint32(len(t.rowIds)),
		Kind:  KindAdhoc,
	}
}

// SetRowCounts records, for one rank, the full row-space width (total)
// together with how many of those rows are explicit and how many are in
// the adhoc shared band. sharedRowCounts[rank] is derived at Seal as
// total - explicit - adhoc - (rank==0 ? facts : 0). Must be called before
// Seal for every rank that should report a nonzero total.
func (t *TermTable) SetRowCounts(rank Rank, total, explicitCount, adhocCount uint64) {
	t.requireNotSealed()
	t.explicitRowCounts[rank] = explicitCount
	t.adhocRowCounts[rank] = adhocCount
	t.sharedRowCounts[rank] = total // staged; Seal turns this into the real shared count
	t.setRowCountsCalled = true
}

// SetFactRowCount records the number of rank-0 rows reserved for
// ingestion-time facts. Must be called before Seal.
func (t *TermTable) SetFactRowCount(count uint64) {
	t.requireNotSealed()
	t.factRowCount = count
}

// Seal freezes the table: it derives each rank's shared row count from the
// totals staged by SetRowCounts, fixes the adhoc band's base offset, and
// forbids any further mutation.
func (t *TermTable) Seal() {
	t.requireNotSealed()
	LogDebugIf(!t.setRowCountsCalled, "termtable: Seal called without any SetRowCounts call, all ranks total zero rows\n")
	for r := Rank(0); r <= MaxRank; r++ {
		facts := uint64(0)
		if r == 0 {
			facts = t.factRowCount
		}
		total := t.sharedRowCounts[r] // staged total, see SetRowCounts
		t.sharedRowCounts[r] = total - t.explicitRowCounts[r] - t.adhocRowCounts[r] - facts
		t.adhocBase[r] = t.explicitRowCounts[r]
	}
	t.sealed = true
}

// GetRows returns term's PackedRowIdSequence: the stored explicit sequence
// on a hash hit, or the (IdfX10, GramSize) fallback recipe on a miss.
func (t *TermTable) GetRows(term Term) PackedRowIdSequence {
	t.requireSealed()
	if seq, ok := t.termHashToRows[term.Hash]; ok {
		seq.Kind = KindExplicit
		return seq
	}
	return t.adhocRecipes[term.ClampedIdfX10()][term.ClampedGramSize()]
}

// GetRowIdExplicit returns rowIds[index]. Undefined (may panic on an
// out-of-range index) if index falls outside a slice previously returned
// by GetRows; callers are expected to respect those bounds.
func (t *TermTable) GetRowIdExplicit(index int) RowId {
	t.requireSealed()
	return t.rowIds[index]
}

// GetRowIdAdhoc derives the index-th RowId of an adhoc term. The stored
// RowId at rowIds[index] (added by AddRowId before CloseAdhocTerm closed
// the recipe) contributes only its rank; the
// RowIndex is derived deterministically from (hash, variant) so that
// repeated calls with different variants enumerate distinct candidate rows
// inside the same shared band.
//
// The mixing function is a SplitMix64-style finalizer; its exact bit
// pattern is part of this table's on-disk contract (see DESIGN.md) and
// must never change without a format version bump.
func (t *TermTable) GetRowIdAdhoc(hash uint64, index int, variant uint32) RowId {
	t.requireSealed()
	rank := t.rowIds[index].Rank
	band := t.adhocRowCounts[rank]
	if band == 0 {
		band = 1
	}
	offset := mix64(hash, uint64(variant)) % band
	return RowId{Rank: rank, RowIndex: uint32(offset + t.adhocBase[rank])}
}

// GetTotalRowCount returns the total number of rows assigned at rank,
// across explicit, adhoc, shared, and (rank 0 only) fact rows.
func (t *TermTable) GetTotalRowCount(rank Rank) uint64 {
	t.requireSealed()
	facts := uint64(0)
	if rank == 0 {
		facts = t.factRowCount
	}
	return t.explicitRowCounts[rank] + t.adhocRowCounts[rank] + t.sharedRowCounts[rank] + facts
}

// GetBytesPerDocument returns the signature-file storage cost per document
// at rank: GetTotalRowCount(rank) / (8 * 2^rank).
func (t *TermTable) GetBytesPerDocument(rank Rank) float64 {
	total := t.GetTotalRowCount(rank) // also enforces sealed
	bitsPerRow := 8.0 * float64(uint64(1)<<uint(rank))
	return float64(total) / bitsPerRow
}

const goldenGamma = 0x9E3779B97F4A7C15

// mix64 is a SplitMix64-style finalizer combining a term hash with a
// variant counter into a uniformly distributed 64-bit value.
func mix64(hash, variant uint64) uint64 {
	x := hash ^ (variant * goldenGamma)
	x = (x ^ (x >> 30)) * 0xBF58476D1CE4E5B9
	x = (x ^ (x >> 27)) * 0x94D049BB133111EB
	return x ^ (x >> 31)
}
