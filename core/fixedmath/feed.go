package fixedmath

import "github.com/graphenechain/ledgercore/ruleerrors"

// Feed is the structural subset of BitassetData.CurrentFeed the numeric
// kernel operates on (spec §3, §4.1): a settlement price, the two margin
// parameters that gate a call order's price, and the core exchange rate
// propagated into the backing asset's options (spec §4.3).
type Feed struct {
	SettlementPrice            Price
	MaximumShortSqueezeRatio   uint16 // MSSR, CollateralRatioDenom basis
	MaintenanceCollateralRatio uint16 // MCR, CollateralRatioDenom basis
	CoreExchangeRate           Price
}

// MaxShortSqueezePrice returns settlement_price × (denom/MSSR) (spec
// §4.1): the price above which a black-swan bid must reach to save the
// least-collateralized call order.
func MaxShortSqueezePrice(feed Feed, collateralRatioDenom uint16) (Price, error) {
	return feed.SettlementPrice.Mul(Ratio{Num: uint64(collateralRatioDenom), Den: uint64(feed.MaximumShortSqueezeRatio)})
}

// MarginCallOrderPrice returns the price at which a margin call executes
// (spec §4.1): numerator = max(MSSR − mcfr, denom); result = settlement ×
// (denom/numerator). mcfr is nil when the asset charges no margin-call fee.
func MarginCallOrderPrice(feed Feed, mcfr *uint16, collateralRatioDenom uint16) (Price, error) {
	numerator := marginCallNumerator(feed, mcfr, collateralRatioDenom)
	return feed.SettlementPrice.Mul(Ratio{Num: uint64(collateralRatioDenom), Den: uint64(numerator)})
}

// MarginCallPaysRatio returns (numerator, MSSR) with the same floor as
// MarginCallOrderPrice; (1,1) when mcfr is nil (spec §4.1).
func MarginCallPaysRatio(feed Feed, mcfr *uint16, collateralRatioDenom uint16) Ratio {
	if mcfr == nil {
		return Ratio{Num: 1, Den: 1}
	}
	numerator := marginCallNumerator(feed, mcfr, collateralRatioDenom)
	return Ratio{Num: uint64(numerator), Den: uint64(feed.MaximumShortSqueezeRatio)}
}

func marginCallNumerator(feed Feed, mcfr *uint16, collateralRatioDenom uint16) uint16 {
	var fee uint16
	if mcfr != nil {
		fee = *mcfr
	}
	numerator := collateralRatioDenom
	if fee < feed.MaximumShortSqueezeRatio {
		numerator = feed.MaximumShortSqueezeRatio - fee
	}
	if numerator < collateralRatioDenom {
		numerator = collateralRatioDenom
	}
	return numerator
}

// MaintenanceCollateralization returns ~settlement_price × (MCR/denom),
// or the null price if the feed has no settlement price (spec §4.1).
func MaintenanceCollateralization(feed Feed, collateralRatioDenom uint16) (Price, error) {
	if feed.SettlementPrice.IsNull() {
		return Price{}, nil
	}
	return feed.SettlementPrice.Invert().Mul(Ratio{Num: uint64(feed.MaintenanceCollateralRatio), Den: uint64(collateralRatioDenom)})
}

// CallPrice computes the price at which a call order with the given debt
// and collateral would become marginable at collateralRatio (spec §4.1):
// ratio = (debt × cr) / (collateral × denom), shifted right until both
// legs fit, each halving step rounding up by adding 1.
func CallPrice(debt, collateral Asset, collateralRatio, collateralRatioDenom uint16) (Price, error) {
	if collateral.Amount <= 0 || collateralRatioDenom == 0 {
		return Price{}, ruleerrors.ErrDivisionByZero
	}

	num := mulBig(debt.Amount, int64(collateralRatio))
	den := mulBig(collateral.Amount, int64(collateralRatioDenom))
	g := gcdBig(num, den)
	if g.Sign() != 0 {
		num.Div(num, g)
		den.Div(den, g)
	}

	for cmpMax(num) > 0 || cmpMax(den) > 0 {
		num.Rsh(num, 1)
		num.Add(num, one)
		den.Rsh(den, 1)
		den.Add(den, one)
		if g := gcdBig(num, den); g.Sign() != 0 && g.Cmp(one) != 0 {
			num.Div(num, g)
			den.Div(den, g)
		}
	}

	return Price{
		Base:  NewAsset(den.Int64(), collateral.ID),
		Quote: NewAsset(num.Int64(), debt.ID),
	}, nil
}
