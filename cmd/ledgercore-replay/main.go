// Command ledgercore-replay drives a scripted sequence of blocks against a
// fresh core and logs the resulting dynamic global properties after each
// one — the manual-inspection harness spec §12 asks for as a stand-in for
// the original test suite's scripted database_tests.cpp scenarios. It is
// not part of consensus and performs no persistence of its own.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/graphenechain/ledgercore/core"
	"github.com/graphenechain/ledgercore/core/fixedmath"
	"github.com/graphenechain/ledgercore/core/model"
	"github.com/graphenechain/ledgercore/internal/logger"
	"github.com/graphenechain/ledgercore/params"
)

var log = logger.RegisterSubSystem("RPLY")

func main() {
	scenarioPath := flag.String("scenario", "", "path to a YAML scenario file")
	flag.Parse()

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ledgercore-replay -scenario <file.yaml>")
		os.Exit(1)
	}

	if err := run(*scenarioPath); err != nil {
		log.Criticalf("replay failed: %s", err)
		os.Exit(1)
	}
}

func run(scenarioPath string) error {
	s, err := loadScenario(scenarioPath)
	if err != nil {
		return err
	}

	ledger := &loggingLedger{}
	sink := &loggingSink{}
	c := core.New(params.Default(), ledger, sink, loggingProposalExecutor{})

	session := c.Store().NewSession()
	for _, w := range s.Witnesses {
		c.Store().PutWitness(session, model.Witness{ID: model.WitnessID(w.ID), Account: model.AccountID(w.Account)})
	}
	activeWitnesses := make([]model.WitnessID, 0, len(s.ActiveWitnesses))
	for _, id := range s.ActiveWitnesses {
		activeWitnesses = append(activeWitnesses, model.WitnessID(id))
	}
	c.Store().SetGlobalProperties(session, model.GlobalProperties{ActiveWitnesses: activeWitnesses})
	session.Commit()

	for _, b := range s.Blocks {
		header := model.BlockHeader{
			BlockNumber: b.Number,
			BlockID:     syntheticBlockID(),
			Timestamp:   model.DomainTime(b.Timestamp),
			Witness:     model.WitnessID(b.Witness),
		}
		if b.Maintenance {
			setMaintenanceFlag(c)
		}

		if err := c.ApplyBlock(header, b.MissedBlocks); err != nil {
			return fmt.Errorf("block %d: %w", b.Number, err)
		}

		dgp := c.Store().DynamicGlobalProperties()
		log.Infof("block %d applied: head=%d last_irreversible=%d time=%d",
			b.Number, dgp.HeadBlockNumber, dgp.LastIrreversibleBlockNum, dgp.Time)
	}

	return nil
}

// setMaintenanceFlag lets a scenario force a maintenance-interval block
// without having to model the real scheduling logic that would normally
// set DynamicFlagMaintenance ahead of it.
func setMaintenanceFlag(c *core.Core) {
	session := c.Store().NewSession()
	dgp := c.Store().DynamicGlobalProperties()
	dgp.DynamicFlags |= model.DynamicFlagMaintenance
	c.Store().SetDynamicGlobalProperties(session, dgp)
	session.Commit()
}

// syntheticBlockID stands in for a real block hash; the harness doesn't
// produce or verify wire-format blocks, so any unique value will do.
func syntheticBlockID() [32]byte {
	var id [32]byte
	u := uuid.New()
	copy(id[:], u[:])
	return id
}

type loggingLedger struct{}

func (loggingLedger) Credit(account model.AccountID, amount fixedmath.Asset) error {
	log.Infof("credit account %d: %d of asset %d", account, amount.Amount, amount.ID)
	return nil
}

func (loggingLedger) Debit(account model.AccountID, amount fixedmath.Asset) error {
	log.Infof("debit account %d: %d of asset %d", account, amount.Amount, amount.ID)
	return nil
}

type loggingSink struct{}

func (loggingSink) PushAppliedOperation(op model.VirtualOperation) {
	log.Infof("virtual operation: %+v", op)
}

type loggingProposalExecutor struct{}

func (loggingProposalExecutor) Execute(proposedOperations []byte) error {
	log.Infof("executing expired proposal (%d bytes)", len(proposedOperations))
	return nil
}
