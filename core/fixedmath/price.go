package fixedmath

import (
	"math/big"

	"github.com/graphenechain/ledgercore/ruleerrors"
)

// Price is a pair of assets (base, quote) with distinct asset ids (spec
// §4.1). Its value is conventionally "quote per base" — the exchange rate
// used by Asset.Multiply/MultiplyAndRoundUp.
type Price struct {
	Base  Asset
	Quote Asset
}

// NewPrice constructs a Price the way graphene's `asset / asset` operator
// does: the left operand becomes Base, the right becomes Quote.
func NewPrice(base, quote Asset) Price {
	return Price{Base: base, Quote: quote}
}

// PriceMax returns the maximum representable price for the given asset
// ids: MAX_SHARE_SUPPLY/1 (spec §4.1).
func PriceMax(base, quote AssetID) Price {
	return Price{Base: NewAsset(MaxShareSupply, base), Quote: NewAsset(1, quote)}
}

// PriceMin returns the minimum representable price for the given asset
// ids: 1/MAX_SHARE_SUPPLY (spec §4.1).
func PriceMin(base, quote AssetID) Price {
	return Price{Base: NewAsset(1, base), Quote: NewAsset(MaxShareSupply, quote)}
}

// Validate requires base.Amount > 0, quote.Amount > 0, and distinct
// asset ids (spec §4.1).
func (p Price) Validate() error {
	if p.Base.Amount <= 0 || p.Quote.Amount <= 0 {
		return ruleerrors.ErrInvariantViolation
	}
	if p.Base.ID == p.Quote.ID {
		return ruleerrors.ErrInvariantViolation
	}
	return nil
}

// IsNull reports whether both asset ids are the reserved zero id (spec
// §4.1: "a null price has both asset ids equal to the zero identifier").
func (p Price) IsNull() bool {
	return p.Base.ID == 0 && p.Quote.ID == 0
}

// Invert returns ~p, the logical inverse with base and quote swapped
// (spec §4.1).
func (p Price) Invert() Price {
	return Price{Base: p.Quote, Quote: p.Base}
}

// crossMultiply computes b.Quote.Amount*a.Base.Amount and
// a.Quote.Amount*b.Base.Amount in 128-bit-equivalent precision, as used
// by both Equal and Less (spec §4.1: "comparison and equality of prices
// uses cross-multiplication in 128-bit to avoid fraction reduction").
func crossMultiply(a, b Price) (amult, bmult *big.Int) {
	amult = new(big.Int).Mul(big.NewInt(b.Quote.Amount), big.NewInt(a.Base.Amount))
	bmult = new(big.Int).Mul(big.NewInt(a.Quote.Amount), big.NewInt(b.Base.Amount))
	return amult, bmult
}

// Equal reports price equality without reducing either fraction.
func (a Price) Equal(b Price) bool {
	if a.Base.ID != b.Base.ID || a.Quote.ID != b.Quote.ID {
		return false
	}
	amult, bmult := crossMultiply(a, b)
	return amult.Cmp(bmult) == 0
}

// Less orders first by base asset id, then by quote asset id, then by
// the cross-multiplied fraction value (spec §4.1).
func (a Price) Less(b Price) bool {
	if a.Base.ID != b.Base.ID {
		return a.Base.ID < b.Base.ID
	}
	if a.Quote.ID != b.Quote.ID {
		return a.Quote.ID < b.Quote.ID
	}
	amult, bmult := crossMultiply(a, b)
	return amult.Cmp(bmult) < 0
}

// Ratio is a pair of positive integers (spec §4.1).
type Ratio struct {
	Num uint64
	Den uint64
}

// Invert returns den/num.
func (r Ratio) Invert() Ratio {
	return Ratio{Num: r.Den, Den: r.Num}
}

// Mul performs the bounded-precision rescale of spec §4.1: "price ×
// ratio". This is consensus-critical and must reproduce the dual-
// candidate tie-break bit-identically; see original_source's
// libraries/protocol/asset.cpp operator*(price, ratio_type).
func (p Price) Mul(r Ratio) (Price, error) {
	if err := p.Validate(); err != nil {
		return Price{}, err
	}
	if r.Num == 0 || r.Den == 0 {
		return Price{}, ruleerrors.ErrInvariantViolation
	}
	if r.Num == r.Den {
		return p, nil
	}

	pRat := new(big.Rat).SetFrac(big.NewInt(p.Base.Amount), big.NewInt(p.Quote.Amount))
	rRat := new(big.Rat).SetFrac(new(big.Int).SetUint64(r.Num), new(big.Int).SetUint64(r.Den))
	ocp := new(big.Rat).Mul(pRat, rRat)
	cp := new(big.Rat).Set(ocp)

	maxBig := maxShareSupplyBig
	one := big.NewInt(1)
	shrunk := false
	usingMax := false
	for cp.Num().Cmp(maxBig) > 0 || cp.Denom().Cmp(maxBig) > 0 {
		if cp.Num().Cmp(one) == 0 {
			cp.SetFrac(one, maxBig)
			usingMax = true
			break
		}
		if cp.Denom().Cmp(one) == 0 {
			cp.SetFrac(maxBig, one)
			usingMax = true
			break
		}
		cp.SetFrac(new(big.Int).Rsh(cp.Num(), 1), new(big.Int).Rsh(cp.Denom(), 1))
		shrunk = true
	}

	if shrunk {
		num := new(big.Int).Set(ocp.Num())
		den := new(big.Int).Set(ocp.Denom())
		if num.Cmp(den) > 0 {
			num.Div(num, den)
			if num.Cmp(maxBig) > 0 {
				num.Set(maxBig)
			}
			den.SetInt64(1)
		} else {
			den.Div(den, num)
			if den.Cmp(maxBig) > 0 {
				den.Set(maxBig)
			}
			num.SetInt64(1)
		}
		ncp := new(big.Rat).SetFrac(num, den)

		if num.Cmp(maxBig) == 0 || den.Cmp(maxBig) == 0 {
			cp = ncp
		} else {
			diff1 := new(big.Rat).Sub(ncp, ocp)
			diff1.Abs(diff1)
			diff2 := new(big.Rat).Sub(cp, ocp)
			diff2.Abs(diff2)
			if diff1.Cmp(diff2) < 0 {
				cp = ncp
			}
		}
	}

	np := Price{
		Base:  NewAsset(cp.Num().Int64(), p.Base.ID),
		Quote: NewAsset(cp.Denom().Int64(), p.Quote.ID),
	}

	if shrunk || usingMax {
		if (r.Num > r.Den && np.Less(p)) || (r.Num < r.Den && p.Less(np)) {
			// The out-of-range guard: rescaling by ratio>1 must never
			// move the price down, and by ratio<1 must never move it
			// up. When it would, return the original price unchanged.
			np = p
		}
	}

	if err := np.Validate(); err != nil {
		return Price{}, err
	}
	return np, nil
}

// Div performs p × (den/num) (spec §4.1).
func (p Price) Div(r Ratio) (Price, error) {
	return p.Mul(r.Invert())
}
