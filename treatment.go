package sigindex

import (
	"fmt"
	"math"

	"github.com/sigrowio/sigindex/errs"
)

// ITreatment maps a Term to the RowConfiguration describing how many rows
// of which rank it should be assigned.
type ITreatment interface {
	GetTreatment(term Term) RowConfiguration
}

// PrivateSharedRank0 is the representative Treatment policy in scope: a
// pure function of a term's IDF bucket, parameterized at construction by
// density (target fraction of set bits per shared row) and snr (target
// signal-to-noise ratio).
//
// It precomputes one RowConfiguration per IdfX10 bucket at construction
// time, so GetTreatment is a clamped table lookup and cannot fail.
type PrivateSharedRank0 struct {
	density float64
	snr     float64
	table   [MaxIdfX10Value + 1]RowConfiguration
}

// NewPrivateSharedRank0 builds the policy, precomputing the per-bucket
// table. Construction fails only when density is outside (0,1) or snr is
// not greater than 1.
func NewPrivateSharedRank0(density, snr float64) (*PrivateSharedRank0, error) {
	if density <= 0 || density >= 1 {
		return nil, fmt.Errorf("sigindex: density %v out of (0,1): %w", density, errs.ErrOutOfRangeConfig)
	}
	if snr <= 1 {
		return nil, fmt.Errorf("sigindex: snr %v must be > 1: %w", snr, errs.ErrOutOfRangeConfig)
	}

	p := &PrivateSharedRank0{density: density, snr: snr}
	for idf := 0; idf <= MaxIdfX10Value; idf++ {
		f := IdfX10ToFrequency(idf)
		if f >= density {
			p.table[idf] = NewRowConfiguration(Entry{Rank: 0, RowCount: 1})
			continue
		}
		k := ComputeRowCount(f, density, snr)
		p.table[idf] = NewRowConfiguration(Entry{Rank: 0, RowCount: uint32(k)})
	}
	return p, nil
}

// GetTreatment returns the precomputed configuration for term's IDF
// bucket, clamping to MaxIdfX10Value so the boundary bucket itself is a
// valid index rather than a past-the-end one. This method cannot fail.
func (p *PrivateSharedRank0) GetTreatment(term Term) RowConfiguration {
	return p.table[term.ClampedIdfX10()]
}

// ComputeRowCount returns the smallest k such that combining k shared rows
// of density `density` yields an expected false-positive rate below
// f/snr: k = ceil(log(f/snr) / log(density)), clamped to [1, MaxRowCount].
func ComputeRowCount(f, density, snr float64) int {
	k := int(math.Ceil(math.Log(f/snr) / math.Log(density)))
	if k < 1 {
		k = 1
	}
	if k > MaxRowCount {
		k = MaxRowCount
	}
	return k
}
