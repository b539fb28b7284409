package fixedmath

import "testing"

const (
	usd AssetID = 10
	core AssetID = 0
)

func TestMaxShortSqueezePrice(t *testing.T) {
	// settlement_price = 1 USD/CORE, MSSR = 150% (1500/1000).
	feed := Feed{
		SettlementPrice:            NewPrice(NewAsset(1, usd), NewAsset(1, core)),
		MaximumShortSqueezeRatio:   1500,
		MaintenanceCollateralRatio: 1750,
	}
	mssp, err := MaxShortSqueezePrice(feed, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// mssp = settlement * (1000/1500) = 2/3 USD/CORE.
	want := NewPrice(NewAsset(2, usd), NewAsset(3, core))
	if !mssp.Equal(want) {
		t.Fatalf("expected %+v, got %+v", want, mssp)
	}
}

func TestMarginCallPaysRatioNilMCFR(t *testing.T) {
	feed := Feed{MaximumShortSqueezeRatio: 1500}
	r := MarginCallPaysRatio(feed, nil, 1000)
	if r != (Ratio{Num: 1, Den: 1}) {
		t.Fatalf("expected (1,1) for nil mcfr, got %+v", r)
	}
}

func TestMarginCallOrderPriceFloorsAtOneHundredPercent(t *testing.T) {
	feed := Feed{
		SettlementPrice:          NewPrice(NewAsset(1, usd), NewAsset(1, core)),
		MaximumShortSqueezeRatio: 1010, // MSSR only 1% above par
	}
	fee := uint16(500) // fee bigger than (MSSR - denom), forcing the floor
	p, err := MarginCallOrderPrice(feed, &fee, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// numerator floors at collateralRatioDenom (1000), so result == settlement_price.
	if !p.Equal(feed.SettlementPrice) {
		t.Fatalf("expected floored margin call price to equal settlement price, got %+v", p)
	}
}

func TestMaintenanceCollateralizationNullFeed(t *testing.T) {
	feed := Feed{MaintenanceCollateralRatio: 1750}
	mc, err := MaintenanceCollateralization(feed, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !mc.IsNull() {
		t.Fatalf("expected null price for feed with no settlement price")
	}
}

func TestCallPrice(t *testing.T) {
	debt := NewAsset(100, usd)
	collateral := NewAsset(150, core)

	// MCR = 175% (1750/1000): (debt*1750)/(collateral*1000) reduces to
	// 7/6; call_price is built as asset(den, collateral)/asset(num, debt).
	p, err := CallPrice(debt, collateral, 1750, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := NewPrice(NewAsset(6, core), NewAsset(7, usd))
	if !p.Equal(want) {
		t.Fatalf("expected %+v, got %+v", want, p)
	}
}

func TestCallPriceRejectsZeroCollateral(t *testing.T) {
	debt := NewAsset(100, usd)
	collateral := NewAsset(0, core)
	if _, err := CallPrice(debt, collateral, 1750, 1000); err == nil {
		t.Fatalf("expected error for zero collateral")
	}
}
