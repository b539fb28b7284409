// Package feedaggregator implements spec §4.3: recomputing a bitasset's
// current_feed from its publishers' feed history, propagating the
// resulting core-exchange-rate, and triggering a margin-call recheck
// when the aggregated margin parameters move.
package feedaggregator

import (
	"sort"

	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
)

// MarginChecker is the subset of the margin engine the aggregator calls
// back into once a feed update changes an asset's margin parameters
// (spec §4.3 ⇒ §4.4).
type MarginChecker interface {
	CheckCallOrders(session *objectstore.UndoSession, store *objectstore.Store, assetID fixedmath.AssetID, enableBlackSwan bool) error
}

// FeedAggregator recomputes expired feeds and propagates core-exchange-
// rate updates.
type FeedAggregator struct {
	margin MarginChecker
}

// New constructs a FeedAggregator that calls back into margin for
// post-update black-swan checks.
func New(margin MarginChecker) *FeedAggregator {
	return &FeedAggregator{margin: margin}
}

// UpdateExpiredFeeds recomputes current_feed for every bitasset whose
// feed_expiration is at or before head_time (spec §4.3).
func (a *FeedAggregator) UpdateExpiredFeeds(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	for _, assetID := range store.BitassetsWithFeedExpiredBy(headTime) {
		if err := a.updateOneFeed(session, store, assetID, headTime); err != nil {
			return err
		}
	}
	return nil
}

func (a *FeedAggregator) updateOneFeed(session *objectstore.UndoSession, store *objectstore.Store, assetID fixedmath.AssetID, headTime model.DomainTime) error {
	bitasset := store.Bitasset(assetID)
	if bitasset == nil {
		return nil
	}

	prior := bitasset.CurrentFeed
	median, newExpiration := medianFeed(bitasset.FeedHistory, bitasset.Options.FeedLifetimeSeconds, headTime)

	updated := *bitasset
	updated.CurrentFeed = median
	updated.FeedExpiration = newExpiration
	if !median.CoreExchangeRate.Equal(prior.CoreExchangeRate) {
		updated.FeedCERUpdated = true
		updated.AssetCERUpdated = true
	}
	store.PutBitasset(session, updated)

	marginParamsChanged := median.MaximumShortSqueezeRatio != prior.MaximumShortSqueezeRatio ||
		median.MaintenanceCollateralRatio != prior.MaintenanceCollateralRatio
	if marginParamsChanged && !median.SettlementPrice.IsNull() {
		if err := a.margin.CheckCallOrders(session, store, assetID, true); err != nil {
			return err
		}
	}
	return nil
}

// medianFeed drops feeds older than lifetimeSeconds relative to now, then
// takes the median of what remains over every structural field (spec
// §4.3). An empty remaining set yields the null feed, expiring at now
// plus the configured lifetime so the next sweep retries.
func medianFeed(history []model.FeedRecord, lifetimeSeconds uint32, now model.DomainTime) (fixedmath.Feed, model.DomainTime) {
	var live []model.FeedRecord
	cutoff := now
	if model.DomainTime(lifetimeSeconds) <= now {
		cutoff = now - model.DomainTime(lifetimeSeconds)
	} else {
		cutoff = 0
	}
	for _, rec := range history {
		if rec.PublishedAt >= cutoff {
			live = append(live, rec)
		}
	}

	expiration := now + model.DomainTime(lifetimeSeconds)
	if len(live) == 0 {
		return fixedmath.Feed{}, expiration
	}

	settlementPrices := make([]fixedmath.Price, len(live))
	mssrs := make([]uint16, len(live))
	mcrs := make([]uint16, len(live))
	cers := make([]fixedmath.Price, len(live))
	for i, rec := range live {
		settlementPrices[i] = rec.Feed.SettlementPrice
		mssrs[i] = rec.Feed.MaximumShortSqueezeRatio
		mcrs[i] = rec.Feed.MaintenanceCollateralRatio
		cers[i] = rec.CoreExchangeRate
	}

	return fixedmath.Feed{
		SettlementPrice:            medianPrice(settlementPrices),
		MaximumShortSqueezeRatio:   medianUint16(mssrs),
		MaintenanceCollateralRatio: medianUint16(mcrs),
		CoreExchangeRate:           medianPrice(cers),
	}, expiration
}

func medianUint16(values []uint16) uint16 {
	sorted := append([]uint16(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	return sorted[len(sorted)/2]
}

func medianPrice(values []fixedmath.Price) fixedmath.Price {
	sorted := append([]fixedmath.Price(nil), values...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })
	return sorted[len(sorted)/2]
}

// UpdateCoreExchangeRates sweeps the need-CER-update index, copying
// current_feed.core_exchange_rate into the asset's options when it
// differs, and clears both the feed's and the asset's CER-updated flags
// (spec §4.3: "clearing the flags", plural — feed_cer_updated and
// asset_cer_updated both mark the same pending propagation).
func (a *FeedAggregator) UpdateCoreExchangeRates(session *objectstore.UndoSession, store *objectstore.Store) {
	for _, assetID := range store.BitassetsWithCERUpdate() {
		bitasset := store.Bitasset(assetID)
		asset := store.Asset(assetID)
		if bitasset == nil || asset == nil {
			continue
		}
		updatedBitasset := *bitasset
		updatedBitasset.AssetCERUpdated = false
		updatedBitasset.FeedCERUpdated = false
		store.PutBitasset(session, updatedBitasset)

		if !asset.Options.CoreExchangeRate.Equal(bitasset.CurrentFeed.CoreExchangeRate) {
			updatedAsset := *asset
			updatedAsset.Options.CoreExchangeRate = bitasset.CurrentFeed.CoreExchangeRate
			store.PutAsset(session, updatedAsset)
		}
	}
}
