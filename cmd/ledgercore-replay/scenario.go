// Package main's scenario loader reads a YAML fixture describing a
// witness set and a sequence of blocks to replay against a fresh core,
// the harness spec §12 asks for in place of the original's
// database_tests.cpp-driven scripted sequences.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scenario is the top-level shape of a replay fixture.
type scenario struct {
	Witnesses       []witnessSeed `yaml:"witnesses"`
	ActiveWitnesses []uint64      `yaml:"active_witnesses"`
	Blocks          []blockSeed   `yaml:"blocks"`
}

type witnessSeed struct {
	ID      uint64 `yaml:"id"`
	Account uint64 `yaml:"account"`
}

type blockSeed struct {
	Number       uint64 `yaml:"number"`
	Timestamp    uint64 `yaml:"timestamp"`
	Witness      uint64 `yaml:"witness"`
	MissedBlocks uint64 `yaml:"missed_blocks"`
	Maintenance  bool   `yaml:"maintenance"`
}

func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var s scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	if len(s.Witnesses) == 0 {
		return nil, fmt.Errorf("scenario must seed at least one witness")
	}
	return &s, nil
}
