// Package ticketprocessor implements spec §4.7: advancing stake tickets
// through their lock-tier lifecycle and keeping the owning account's
// (and the chain's) power-of-brand/power-of-liquidity aggregates in sync
// with each transition.
package ticketprocessor

import (
	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/core/objectstore"
	"github.com/graphenechain/ledgercore/params"
)

// secondsPerChargingStep is how far a ticket's next auto-update is pushed
// out after advancing one lock tier. Tier names (180d/360d/720d) imply a
// 180-day granularity per step; no original source for the exact cadence
// was available, so this constant is this package's own choice.
const secondsPerChargingStep = 180 * 24 * 3600

// Processor advances due stake tickets one lock-tier step per sweep.
type Processor struct {
	params *params.Parameters
	ledger model.Ledger
}

// New constructs a Processor bound to the ledger it credits withdrawn
// tickets through.
func New(p *params.Parameters, ledger model.Ledger) *Processor {
	return &Processor{params: p, ledger: ledger}
}

// SweepTickets processes every ticket due for an auto-update as of
// headTime (spec §4.7).
func (p *Processor) SweepTickets(session *objectstore.UndoSession, store *objectstore.Store, headTime model.DomainTime) error {
	for _, id := range store.TicketsDueForUpdateBy(headTime) {
		tk := store.Ticket(id)
		if tk == nil {
			continue
		}
		if err := p.processOne(session, store, tk, headTime); err != nil {
			return err
		}
	}
	return nil
}

// processOne implements one ticket's spec §4.7 update: a withdrawing
// ticket that has already wound down to liquid pays out and is removed;
// otherwise it steps one lock tier toward its target and reconciles the
// account and chain-wide power-of-brand/inactive/liquidity aggregates
// against the resulting type and value change.
func (p *Processor) processOne(session *objectstore.UndoSession, store *objectstore.Store, tk *model.Ticket, headTime model.DomainTime) error {
	if tk.Status == model.TicketStatusWithdrawing && tk.CurrentType == model.TicketLiquid {
		if err := p.ledger.Credit(tk.Account, fixedmath.NewAsset(tk.Amount, fixedmath.CoreAssetID)); err != nil {
			return err
		}
		acct := *store.AccountStatistics(session, tk.Account)
		acct.TotalCorePOL -= tk.Amount
		acct.TotalPOLValue -= tk.Value
		store.PutAccountStatistics(session, acct)
		store.RemoveTicket(session, tk.ID)
		return nil
	}

	oldType, oldValue := tk.CurrentType, tk.Value
	newType := stepToward(tk.CurrentType, tk.TargetType)
	newValue := tk.Amount * valueMultiplier(newType)

	acct := *store.AccountStatistics(session, tk.Account)
	dgp := store.DynamicGlobalProperties()

	switch {
	case oldType == model.TicketLockedForever:
		if newValue == 0 {
			acct.TotalCorePOB -= tk.Amount
			acct.TotalCoreInactive += tk.Amount
			dgp.TotalPOB -= tk.Amount
			dgp.TotalInactive += tk.Amount
			acct.TotalPOBValue += newValue - oldValue
		}
	case newType == model.TicketLockedForever:
		acct.TotalCorePOL -= tk.Amount
		acct.TotalCorePOB += tk.Amount
		dgp.TotalPOB += tk.Amount
		acct.TotalPOBValue += newValue
		acct.TotalPOLValue -= oldValue
	default:
		acct.TotalPOLValue += newValue - oldValue
	}

	store.PutAccountStatistics(session, acct)
	store.SetDynamicGlobalProperties(session, dgp)

	updated := *tk
	updated.CurrentType = newType
	updated.Value = newValue
	if newType == tk.TargetType {
		updated.Status = model.TicketStatusStable
	} else {
		updated.Status = model.TicketStatusCharging
	}
	updated.NextAutoUpdateTime = headTime + model.DomainTime(secondsPerChargingStep)
	store.PutTicket(session, updated)
	return nil
}

// stepToward moves current one lock tier toward target; lock_forever is
// terminal and never steps away on its own (spec §4.7: "old_type ==
// lock_forever (hence new type is also lock_forever)").
func stepToward(current, target model.TicketType) model.TicketType {
	if current == model.TicketLockedForever {
		return model.TicketLockedForever
	}
	switch {
	case current < target:
		return current + 1
	case current > target:
		return current - 1
	default:
		return current
	}
}

// valueMultiplier is the voting-weight multiplier for each lock tier:
// liquid contributes no weight, and each successive lock tier doubles
// the previous one's.
func valueMultiplier(t model.TicketType) int64 {
	switch t {
	case model.TicketLocked180Days:
		return 1
	case model.TicketLocked360Days:
		return 2
	case model.TicketLocked720Days:
		return 4
	case model.TicketLockedForever:
		return 8
	default:
		return 0
	}
}
