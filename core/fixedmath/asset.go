// Package fixedmath implements the consensus-critical numeric kernel of
// spec §4.1: a 128-bit-backed fixed-point algebra over (Asset, Price,
// Ratio). Every multiplication of two 64-bit amounts is carried out in
// arbitrary precision (via math/big, grounded on the Int128-via-big.Int
// pattern used for consensus-critical fixed-point math in
// Khanh-21522203-PerpLedger's internal/math/fixedpoint.go) and only
// range-checked against MaxShareSupply at the end, so no intermediate
// step can silently truncate.
package fixedmath

import (
	"math/big"

	"github.com/graphenechain/ledgercore/ruleerrors"
)

// MaxShareSupply is the hard ceiling on every asset amount and every
// price leg (spec §4.1, §6). It is a fixed 63-bit bound, mirrored by
// params.Default().MaxShareSupply.
const MaxShareSupply int64 = (int64(1) << 62) - 1

// AssetID identifies an asset type in the object store (spec §3). The
// zero value is the reserved "null" id used by Price.IsNull.
type AssetID uint64

// CoreAssetID is the network's native asset, always id 0 (spec §6
// GLOSSARY: CER converts fees to this asset; witness pay is denominated
// in it).
const CoreAssetID AssetID = 0

// Asset is a signed amount of a specific asset (spec §4.1).
type Asset struct {
	Amount int64
	ID     AssetID
}

// NewAsset constructs an Asset.
func NewAsset(amount int64, id AssetID) Asset {
	return Asset{Amount: amount, ID: id}
}

// IsZero reports whether the asset amount is zero, regardless of id.
func (a Asset) IsZero() bool {
	return a.Amount == 0
}

var maxShareSupplyBig = big.NewInt(MaxShareSupply)

// checkRange returns ruleerrors.ErrArithmeticOverflow if v does not fit
// in [0, MaxShareSupply].
func checkRange(v *big.Int) error {
	if v.Sign() < 0 || v.Cmp(maxShareSupplyBig) > 0 {
		return ruleerrors.ErrArithmeticOverflow
	}
	return nil
}

// Multiply computes floor(a * price), converting a into the other leg of
// price. It requires a's asset id to be one of price's two legs and the
// corresponding divisor leg to be positive (spec §4.1: asset × price).
func (a Asset) Multiply(price Price) (Asset, error) {
	return a.multiply(price, false)
}

// MultiplyAndRoundUp is identical to Multiply but rounds the result up
// instead of truncating (spec §4.1).
func (a Asset) MultiplyAndRoundUp(price Price) (Asset, error) {
	return a.multiply(price, true)
}

func (a Asset) multiply(price Price, roundUp bool) (Asset, error) {
	var num, den int64
	var resultID AssetID

	switch a.ID {
	case price.Base.ID:
		num, den, resultID = price.Quote.Amount, price.Base.Amount, price.Quote.ID
	case price.Quote.ID:
		num, den, resultID = price.Base.Amount, price.Quote.Amount, price.Base.ID
	default:
		return Asset{}, ruleerrors.ErrInvariantViolation
	}
	if den <= 0 {
		return Asset{}, ruleerrors.ErrDivisionByZero
	}

	product := new(big.Int).Mul(big.NewInt(a.Amount), big.NewInt(num))
	if roundUp {
		product.Add(product, big.NewInt(den-1))
	}
	denominator := big.NewInt(den)
	result := new(big.Int).Div(product, denominator)

	if err := checkRange(result); err != nil {
		return Asset{}, err
	}
	return Asset{Amount: result.Int64(), ID: resultID}, nil
}
