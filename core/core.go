// Package core wires the per-block state-update pipeline described by
// spec §2's control flow: update dynamic global data, pay the signing
// witness, run the fixed-order maintenance sweeps, then recompute
// irreversibility. Every mutation within one ApplyBlock call shares a
// single undo session, so any failure unwinds the whole block.
package core

import (
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/core/processes/expirationsweeper"
	"github.com/graphenechain/ledgercore/core/processes/feedaggregator"
	"github.com/graphenechain/ledgercore/core/processes/globalstateupdater"
	"github.com/graphenechain/ledgercore/core/processes/marginengine"
	"github.com/graphenechain/ledgercore/core/processes/settlementmatcher"
	"github.com/graphenechain/ledgercore/core/processes/ticketprocessor"
	"github.com/graphenechain/ledgercore/params"
)

// Core owns the object store and every per-block maintenance process
// that operates on it.
type Core struct {
	params *params.Parameters
	store  *objectstore.Store
	ledger model.Ledger

	globalState *globalstateupdater.GlobalStateUpdater
	feeds       *feedaggregator.FeedAggregator
	margin      *marginengine.MarginEngine
	sweeper     *expirationsweeper.Sweeper
	settlements *settlementmatcher.Matcher
	tickets     *ticketprocessor.Processor
}

// New constructs a Core over a fresh object store, wiring every process
// to its collaborators the way spec §4 describes their call graph:
// feeds call back into margin on a parameter change (§4.3⇒§4.4), and
// forced settlement probes margin's black-swan predicate before
// committing a tentative match (§4.6⇒§4.4).
func New(p *params.Parameters, ledger model.Ledger, sink model.OperationSink, proposals expirationsweeper.ProposalExecutor) *Core {
	margin := marginengine.New(p, ledger, sink)
	return &Core{
		params:      p,
		store:       objectstore.New(),
		ledger:      ledger,
		globalState: globalstateupdater.New(p),
		feeds:       feedaggregator.New(margin),
		margin:      margin,
		sweeper:     expirationsweeper.New(ledger, sink, proposals),
		settlements: settlementmatcher.New(p, ledger, sink, margin),
		tickets:     ticketprocessor.New(p, ledger),
	}
}

// Store exposes the underlying object store for genesis setup and
// queries; callers must not mutate it outside an ApplyBlock-managed
// session.
func (c *Core) Store() *objectstore.Store { return c.store }

// ApplyBlock runs the full per-block pipeline for block, given how many
// slots were missed immediately before it (spec §4.2's missed_blocks).
// Every step shares one undo session: a failure at any point rolls back
// every mutation the block made, including ones already committed to
// sub-steps earlier in the same call (spec §5).
func (c *Core) ApplyBlock(block model.BlockHeader, missedBlocks uint64) error {
	session := c.store.NewSession()
	if err := c.applyBlock(session, block, missedBlocks); err != nil {
		session.Rollback()
		return err
	}
	session.Commit()
	return nil
}

func (c *Core) applyBlock(session *objectstore.UndoSession, block model.BlockHeader, missedBlocks uint64) error {
	if err := c.globalState.UpdateGlobalDynamicData(session, c.store, block, missedBlocks); err != nil {
		return err
	}
	if err := c.globalState.UpdateSigningWitness(session, c.store, c.ledger, block); err != nil {
		return err
	}

	dgp := c.store.DynamicGlobalProperties()
	if dgp.MaintenanceFlagSet() {
		c.resetForceSettledVolume(session)
	}

	if err := c.runMaintenanceSweeps(session, dgp.Time); err != nil {
		return err
	}

	c.globalState.UpdateLastIrreversibleBlock(session, c.store)
	return nil
}

// runMaintenanceSweeps runs spec §2's fixed sweep order: expired
// transactions, proposals, orders (limit-order expiry, margin-call
// matching, and forced-settlement matching), feeds, CER, withdraw
// permissions, HTLCs, tickets.
func (c *Core) runMaintenanceSweeps(session *objectstore.UndoSession, headTime model.DomainTime) error {
	c.sweeper.SweepDedupeAndProposals(session, c.store, headTime)

	if err := c.sweeper.SweepLimitOrders(session, c.store, headTime); err != nil {
		return err
	}
	for _, assetID := range c.store.MarketIssuedAssetIDs() {
		if err := c.margin.CheckCallOrders(session, c.store, assetID, true); err != nil {
			return err
		}
	}
	if err := c.settlements.SweepForceSettlements(session, c.store, headTime); err != nil {
		return err
	}

	if err := c.feeds.UpdateExpiredFeeds(session, c.store, headTime); err != nil {
		return err
	}
	c.feeds.UpdateCoreExchangeRates(session, c.store)

	if err := c.sweeper.SweepWithdrawPermissionsAndHTLCs(session, c.store, headTime); err != nil {
		return err
	}

	return c.tickets.SweepTickets(session, c.store, headTime)
}

// resetForceSettledVolume zeroes every bitasset's per-period counter at
// the start of a maintenance interval (spec §3: ForceSettledVolume
// "reset to 0 at each maintenance interval").
func (c *Core) resetForceSettledVolume(session *objectstore.UndoSession) {
	for _, assetID := range c.store.MarketIssuedAssetIDs() {
		bitasset := c.store.Bitasset(assetID)
		if bitasset == nil || bitasset.ForceSettledVolume == 0 {
			continue
		}
		updated := *bitasset
		updated.ForceSettledVolume = 0
		c.store.PutBitasset(session, updated)
	}
}
