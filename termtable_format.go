package sigindex

import (
	"fmt"
	"io"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/sigrowio/sigindex/errs"
)

// On-disk format, version-tagged and little-endian throughout:
//
//  1. 4-byte magic "TTBL", 4-byte version (fixed32).
//  2. start cursor (fixed64), flags byte (bit0 setRowCountsCalled, bit1 sealed).
//  3. rowIds: varint count, then count x packed RowId (rank:8 || rowIndex:32,
//     padded to 8 bytes).
//  4. termHashToRows: varint count, then count x (hash fixed64, packed
//     PackedRowIdSequence 12B).
//  5. adhocRecipes: fixed (MaxIdfX10Value+1) x (MaxGramSize+1) x 12B
//     rectangular block, row-major, no length prefix (its shape is fixed
//     by the format version).
//  6. explicitRowCounts, adhocRowCounts, sharedRowCounts: each a varint
//     count + that many fixed64 entries; factRowCount: one fixed64.
//
// Fixed-width integers reuse google.golang.org/protobuf/encoding/protowire's
// Append/Consume helpers for varints and fixed-width ints; this is a
// bespoke self-describing blob, not a protobuf message, so only the
// low-level wire primitives are borrowed.
const (
	formatMagic   = "TTBL"
	formatVersion = uint32(1)

	rowIdWireSize = 8  // rank byte + fixed32 rowIndex + 3 bytes padding
	seqWireSize   = 12 // start fixed32 + end fixed32 + kind fixed32
)

// Write serializes the sealed table to w in the format documented above.
func (t *TermTable) Write(w io.Writer) error {
	t.requireSealed()

	buf := make([]byte, 0, 4096)
	buf = append(buf, formatMagic...)
	buf = protowire.AppendFixed32(buf, formatVersion)

	buf = protowire.AppendFixed64(buf, t.start)
	var flags byte
	if t.setRowCountsCalled {
		flags |= 0x1
	}
	if t.sealed {
		flags |= 0x2
	}
	buf = append(buf, flags)

	buf = protowire.AppendVarint(buf, uint64(len(t.rowIds)))
	for _, id := range t.rowIds {
		buf = appendRowId(buf, id)
	}

	buf = protowire.AppendVarint(buf, uint64(len(t.termHashToRows)))
	for hash, seq := range t.termHashToRows {
		buf = protowire.AppendFixed64(buf, hash)
		buf = appendSeq(buf, seq)
	}

	for idf := 0; idf <= MaxIdfX10Value; idf++ {
		for gram := 0; gram <= MaxGramSize; gram++ {
			buf = appendSeq(buf, t.adhocRecipes[idf][gram])
		}
	}

	buf = appendU64Array(buf, t.explicitRowCounts[:])
	buf = appendU64Array(buf, t.adhocRowCounts[:])
	buf = appendU64Array(buf, t.sharedRowCounts[:])
	buf = protowire.AppendFixed64(buf, t.factRowCount)

	_, err := w.Write(buf)
	if err != nil {
		return fmt.Errorf("sigindex: write term table: %w", err)
	}
	return nil
}

// ReadTermTable deserializes a table previously written by Write.
// Returns ErrCorruptTable on a bad magic, unsupported version, or a
// truncated stream; never returns a partially-built table on error.
func ReadTermTable(r io.Reader) (*TermTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("sigindex: read term table: %w", err)
	}
	return parseTermTable(data)
}

func parseTermTable(data []byte) (*TermTable, error) {
	if len(data) < len(formatMagic)+4 || string(data[:len(formatMagic)]) != formatMagic {
		return nil, errs.ErrCorruptTable
	}
	b := data[len(formatMagic):]

	version, n := protowire.ConsumeFixed32(b)
	if n < 0 {
		return nil, errs.ErrCorruptTable
	}
	b = b[n:]
	if version != formatVersion {
		return nil, fmt.Errorf("sigindex: unsupported term table version %d: %w", version, errs.ErrCorruptTable)
	}

	start, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return nil, errs.ErrCorruptTable
	}
	b = b[n:]

	if len(b) < 1 {
		return nil, errs.ErrCorruptTable
	}
	flags := b[0]
	b = b[1:]

	t := NewTermTable()
	t.start = start
	t.setRowCountsCalled = flags&0x1 != 0
	t.sealed = flags&0x2 != 0

	count, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, errs.ErrCorruptTable
	}
	b = b[n:]
	rowIds := make([]RowId, 0, count)
	for i := uint64(0); i < count; i++ {
		id, adv, err := consumeRowId(b)
		if err != nil {
			return nil, err
		}
		rowIds = append(rowIds, id)
		b = b[adv:]
	}
	t.rowIds = rowIds

	count, n = protowire.ConsumeVarint(b)
	if n < 0 {
		return nil, errs.ErrCorruptTable
	}
	b = b[n:]
	termMap := make(map[uint64]PackedRowIdSequence, count)
	for i := uint64(0); i < count; i++ {
		hash, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return nil, errs.ErrCorruptTable
		}
		b = b[n:]
		seq, adv, err := consumeSeq(b)
		if err != nil {
			return nil, err
		}
		termMap[hash] = seq
		b = b[adv:]
	}
	t.termHashToRows = termMap

	for idf := 0; idf <= MaxIdfX10Value; idf++ {
		for gram := 0; gram <= MaxGramSize; gram++ {
			seq, adv, err := consumeSeq(b)
			if err != nil {
				return nil, err
			}
			t.adhocRecipes[idf][gram] = seq
			b = b[adv:]
		}
	}

	var err error
	t.explicitRowCounts, b, err = consumeU64Array(b)
	if err != nil {
		return nil, err
	}
	t.adhocRowCounts, b, err = consumeU64Array(b)
	if err != nil {
		return nil, err
	}
	t.sharedRowCounts, b, err = consumeU64Array(b)
	if err != nil {
		return nil, err
	}

	factRowCount, n := protowire.ConsumeFixed64(b)
	if n < 0 {
		return nil, errs.ErrCorruptTable
	}
	t.factRowCount = factRowCount

	for r := Rank(0); r <= MaxRank; r++ {
		t.adhocBase[r] = t.explicitRowCounts[r]
	}
	return t, nil
}

func appendRowId(buf []byte, id RowId) []byte {
	buf = append(buf, byte(id.Rank))
	buf = protowire.AppendFixed32(buf, id.RowIndex)
	return append(buf, 0, 0, 0) // pad rank(1)+rowIndex(4) to 8 bytes
}

func consumeRowId(b []byte) (RowId, int, error) {
	if len(b) < rowIdWireSize {
		return RowId{}, 0, errs.ErrCorruptTable
	}
	rank := Rank(b[0])
	idx, n := protowire.ConsumeFixed32(b[1:5])
	if n < 0 {
		return RowId{}, 0, errs.ErrCorruptTable
	}
	return RowId{Rank: rank, RowIndex: idx}, rowIdWireSize, nil
}

func appendSeq(buf []byte, seq PackedRowIdSequence) []byte {
	buf = protowire.AppendFixed32(buf, seq.Start)
	buf = protowire.AppendFixed32(buf, seq.End)
	return protowire.AppendFixed32(buf, uint32(seq.Kind))
}

func consumeSeq(b []byte) (PackedRowIdSequence, int, error) {
	if len(b) < seqWireSize {
		return PackedRowIdSequence{}, 0, errs.ErrCorruptTable
	}
	start, n1 := protowire.ConsumeFixed32(b[0:4])
	end, n2 := protowire.ConsumeFixed32(b[4:8])
	kind, n3 := protowire.ConsumeFixed32(b[8:12])
	if n1 < 0 || n2 < 0 || n3 < 0 {
		return PackedRowIdSequence{}, 0, errs.ErrCorruptTable
	}
	return PackedRowIdSequence{Start: start, End: end, Kind: RowKind(kind)}, seqWireSize, nil
}

func appendU64Array(buf []byte, arr []uint64) []byte {
	buf = protowire.AppendVarint(buf, uint64(len(arr)))
	for _, v := range arr {
		buf = protowire.AppendFixed64(buf, v)
	}
	return buf
}

func consumeU64Array(b []byte) (arr [MaxRank + 1]uint64, rest []byte, err error) {
	count, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return arr, nil, errs.ErrCorruptTable
	}
	b = b[n:]
	if count > uint64(len(arr)) {
		return arr, nil, errs.ErrCorruptTable
	}
	for i := uint64(0); i < count; i++ {
		v, n := protowire.ConsumeFixed64(b)
		if n < 0 {
			return arr, nil, errs.ErrCorruptTable
		}
		arr[i] = v
		b = b[n:]
	}
	return arr, b, nil
}
