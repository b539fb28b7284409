package feedaggregator

import (
	"testing"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
)

type fakeMarginChecker struct {
	calls int
}

func (c *fakeMarginChecker) CheckCallOrders(*objectstore.UndoSession, *objectstore.Store, fixedmath.AssetID, bool) error {
	c.calls++
	return nil
}

const (
	core fixedmath.AssetID = fixedmath.CoreAssetID
	usd  fixedmath.AssetID = 1
)

// TestUpdateExpiredFeedsFlagsCEROnChange covers spec §4.3's "set a
// pending CER update flag if the aggregator's rule deems it needed"
// step: a recomputed median whose core_exchange_rate differs from the
// prior one flags both feed_cer_updated and asset_cer_updated.
func TestUpdateExpiredFeedsFlagsCEROnChange(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()

	store.PutAsset(session, model.Asset{ID: usd, Symbol: "USD", IsMarketIssued: true})
	store.PutBitasset(session, model.BitassetData{
		AssetID: usd,
		Options: model.BitassetOptions{ShortBackingAssetID: core, FeedLifetimeSeconds: 1000},
		FeedHistory: []model.FeedRecord{
			{
				Publisher:        1,
				Feed:             fixedmath.Feed{SettlementPrice: fixedmath.NewPrice(fixedmath.NewAsset(1, usd), fixedmath.NewAsset(1, core))},
				CoreExchangeRate: fixedmath.NewPrice(fixedmath.NewAsset(2, usd), fixedmath.NewAsset(1, core)),
				PublishedAt:      50,
			},
		},
		FeedExpiration: 50,
	})
	session.Commit()

	agg := New(&fakeMarginChecker{})

	session = store.NewSession()
	if err := agg.UpdateExpiredFeeds(session, store, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	session.Commit()

	bitasset := store.Bitasset(usd)
	if !bitasset.FeedCERUpdated {
		t.Fatalf("expected feed_cer_updated to be set")
	}
	if !bitasset.AssetCERUpdated {
		t.Fatalf("expected asset_cer_updated to be set")
	}
	wantCER := fixedmath.NewPrice(fixedmath.NewAsset(2, usd), fixedmath.NewAsset(1, core))
	if !bitasset.CurrentFeed.CoreExchangeRate.Equal(wantCER) {
		t.Fatalf("expected current_feed.core_exchange_rate %+v, got %+v", wantCER, bitasset.CurrentFeed.CoreExchangeRate)
	}
}

// TestUpdateCoreExchangeRatesPropagatesCERAndClearsBothFlags covers spec
// §4.3's CER sweep: it must copy current_feed.core_exchange_rate (not
// the settlement price) into the asset's options, and clear both
// feed_cer_updated and asset_cer_updated.
func TestUpdateCoreExchangeRatesPropagatesCERAndClearsBothFlags(t *testing.T) {
	store := objectstore.New()
	session := store.NewSession()

	settlementPrice := fixedmath.NewPrice(fixedmath.NewAsset(1, usd), fixedmath.NewAsset(1, core))
	cer := fixedmath.NewPrice(fixedmath.NewAsset(2, usd), fixedmath.NewAsset(1, core))

	store.PutAsset(session, model.Asset{ID: usd, Symbol: "USD", IsMarketIssued: true})
	store.PutBitasset(session, model.BitassetData{
		AssetID: usd,
		Options: model.BitassetOptions{ShortBackingAssetID: core},
		CurrentFeed: fixedmath.Feed{
			SettlementPrice:  settlementPrice,
			CoreExchangeRate: cer,
		},
		FeedCERUpdated:  true,
		AssetCERUpdated: true,
	})
	session.Commit()

	agg := New(&fakeMarginChecker{})

	session = store.NewSession()
	agg.UpdateCoreExchangeRates(session, store)
	session.Commit()

	asset := store.Asset(usd)
	if !asset.Options.CoreExchangeRate.Equal(cer) {
		t.Fatalf("expected asset CER %+v, got %+v", cer, asset.Options.CoreExchangeRate)
	}
	if asset.Options.CoreExchangeRate.Equal(settlementPrice) {
		t.Fatalf("expected the settlement price not to be copied as the CER")
	}

	bitasset := store.Bitasset(usd)
	if bitasset.FeedCERUpdated || bitasset.AssetCERUpdated {
		t.Fatalf("expected both CER flags cleared, got feed=%v asset=%v", bitasset.FeedCERUpdated, bitasset.AssetCERUpdated)
	}
}
