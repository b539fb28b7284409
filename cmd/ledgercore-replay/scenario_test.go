package main

import (
	"os"
	"testing"
)

func writeTempScenario(t *testing.T, content string) string {
	t.Helper()
	f, err := os.CreateTemp("", "scenario-*.yaml")
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close temp file: %v", err)
	}
	return f.Name()
}

func TestLoadScenario(t *testing.T) {
	path := writeTempScenario(t, `witnesses:
  - id: 1
    account: 100
active_witnesses: [1]
blocks:
  - number: 1
    timestamp: 5
    witness: 1
  - number: 2
    timestamp: 10
    witness: 1
    maintenance: true
`)
	defer os.Remove(path)

	s, err := loadScenario(path)
	if err != nil {
		t.Fatalf("loadScenario failed: %v", err)
	}
	if len(s.Witnesses) != 1 || s.Witnesses[0].Account != 100 {
		t.Fatalf("unexpected witnesses: %+v", s.Witnesses)
	}
	if len(s.Blocks) != 2 || !s.Blocks[1].Maintenance {
		t.Fatalf("unexpected blocks: %+v", s.Blocks)
	}
}

func TestLoadScenarioRequiresAtLeastOneWitness(t *testing.T) {
	path := writeTempScenario(t, "blocks: []\n")
	defer os.Remove(path)

	if _, err := loadScenario(path); err == nil {
		t.Fatalf("expected an error for a scenario with no witnesses")
	}
}
