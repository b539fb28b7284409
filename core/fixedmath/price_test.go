package fixedmath

import "testing"

const (
	assetA AssetID = 1
	assetB AssetID = 2
)

func mustPrice(t *testing.T, p Price, err error) Price {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return p
}

func TestPriceInvertRoundTrip(t *testing.T) {
	p := NewPrice(NewAsset(300, assetA), NewAsset(100, assetB))
	if !p.Invert().Invert().Equal(p) {
		t.Fatalf("~~p != p: got %+v", p.Invert().Invert())
	}
}

func TestPriceEqualConsistentWithOrdering(t *testing.T) {
	a := NewPrice(NewAsset(300, assetA), NewAsset(100, assetB))
	b := NewPrice(NewAsset(150, assetA), NewAsset(50, assetB)) // same ratio, unreduced
	if !a.Equal(b) {
		t.Fatalf("expected a == b (same ratio, different representation)")
	}
	if a.Less(b) || b.Less(a) {
		t.Fatalf("equal prices must not compare less than each other")
	}

	c := NewPrice(NewAsset(400, assetA), NewAsset(100, assetB))
	if a.Equal(c) {
		t.Fatalf("expected a != c")
	}
	if !a.Less(c) {
		t.Fatalf("expected a < c")
	}
	if c.Less(a) {
		t.Fatalf("expected !(c < a)")
	}
}

func TestAssetMultiplyFloorsAndRoundTripsWithInvert(t *testing.T) {
	p := NewPrice(NewAsset(1, assetA), NewAsset(3, assetB)) // 1 A == 3 B
	a := NewAsset(10, assetA)

	quoteVal, quoteErr := a.Multiply(p)
	quote := mustPrice2(t, quoteVal, quoteErr)
	if quote.ID != assetB || quote.Amount != 30 {
		t.Fatalf("expected 30 B, got %+v", quote)
	}

	back, err := quote.Multiply(p.Invert())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Amount > a.Amount {
		t.Fatalf("floor property violated: back-converted %d > original %d", back.Amount, a.Amount)
	}
}

func mustPrice2(t *testing.T, a Asset, err error) Asset {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return a
}

func TestAssetMultiplyRejectsForeignAsset(t *testing.T) {
	p := NewPrice(NewAsset(3, assetA), NewAsset(1, assetB))
	_, err := NewAsset(1, AssetID(99)).Multiply(p)
	if err == nil {
		t.Fatalf("expected error for asset belonging to neither leg")
	}
}

func TestMultiplyAndRoundUpRoundsUp(t *testing.T) {
	p := NewPrice(NewAsset(3, assetA), NewAsset(1, assetB)) // 1 A == 1/3 B
	a := NewAsset(1, assetA)

	floorVal, floorErr := a.Multiply(p)
	floorResult := mustPrice2(t, floorVal, floorErr)
	ceilVal, ceilErr := a.MultiplyAndRoundUp(p)
	ceilResult := mustPrice2(t, ceilVal, ceilErr)
	if floorResult.Amount != 0 {
		t.Fatalf("expected floor(1/3) == 0, got %d", floorResult.Amount)
	}
	if ceilResult.Amount != 1 {
		t.Fatalf("expected ceil(1/3) == 1, got %d", ceilResult.Amount)
	}
}

// TestPriceMulClampsOnOverflow is scenario S3: p = MAX/1, r = (2,1).
// The exact rescale overflows; the out-of-range guard must return p
// unchanged because ratio > 1 must never move the price down.
func TestPriceMulClampsOnOverflow(t *testing.T) {
	p := PriceMax(assetA, assetB)
	r := Ratio{Num: 2, Den: 1}

	resultVal, resultErr := p.Mul(r)
	result := mustPrice(t, resultVal, resultErr)
	if !result.Equal(p) {
		t.Fatalf("expected price::max unchanged, got %+v", result)
	}
}

func TestPriceMulRatioOneIsIdentity(t *testing.T) {
	p := NewPrice(NewAsset(7, assetA), NewAsset(13, assetB))
	resultVal, resultErr := p.Mul(Ratio{Num: 5, Den: 5})
	result := mustPrice(t, resultVal, resultErr)
	if !result.Equal(p) {
		t.Fatalf("expected identity rescale, got %+v", result)
	}
}

func TestPriceMulThenDivRoundTripsOrClamps(t *testing.T) {
	p := NewPrice(NewAsset(100, assetA), NewAsset(37, assetB))
	r := Ratio{Num: 7, Den: 3}

	scaledVal, scaledErr := p.Mul(r)
	scaled := mustPrice(t, scaledVal, scaledErr)
	backVal, backErr := scaled.Div(r)
	back := mustPrice(t, backVal, backErr)

	if !back.Equal(p) && !back.Equal(PriceMax(assetA, assetB)) && !back.Equal(PriceMin(assetA, assetB)) {
		t.Fatalf("expected round-trip or clamp to min/max, got %+v", back)
	}
}

func TestPriceValidateRejectsNonPositiveOrSameAsset(t *testing.T) {
	if NewPrice(NewAsset(0, assetA), NewAsset(1, assetB)).Validate() == nil {
		t.Fatalf("expected error for zero base amount")
	}
	if NewPrice(NewAsset(1, assetA), NewAsset(0, assetB)).Validate() == nil {
		t.Fatalf("expected error for zero quote amount")
	}
	if NewPrice(NewAsset(1, assetA), NewAsset(1, assetA)).Validate() == nil {
		t.Fatalf("expected error for identical asset ids")
	}
}

func TestPriceIsNull(t *testing.T) {
	null := Price{}
	if !null.IsNull() {
		t.Fatalf("expected zero-value price to be null")
	}
	nonNull := NewPrice(NewAsset(1, assetA), NewAsset(1, assetB))
	if nonNull.IsNull() {
		t.Fatalf("expected priced pair to not be null")
	}
}
