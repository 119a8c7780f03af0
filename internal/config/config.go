// Package config loads run configurations from YAML files. A run file
// carries the same fields as the flags of the run command; flags that are
// set explicitly win over file values.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cwbudde/varqopt/internal/store"
	"gopkg.in/yaml.v3"
)

// runFile mirrors store.RunConfig with YAML tags.
type runFile struct {
	Problem     string `yaml:"problem"`
	Hamiltonian string `yaml:"hamiltonian"`
	Edges       string `yaml:"edges"`
	DataPath    string `yaml:"dataPath"`
	Layers      int    `yaml:"layers"`

	Strategy  string  `yaml:"strategy"`
	Iters     int     `yaml:"iters"`
	Tolerance float64 `yaml:"tolerance"`
	Step      float64 `yaml:"step"`
	Shift     float64 `yaml:"shift"`
	Shots     int     `yaml:"shots"`
	MinShots  int     `yaml:"minShots"`
	PopSize   int     `yaml:"popSize"`
	Seed      int64   `yaml:"seed"`

	CheckpointInterval int `yaml:"checkpointInterval"`
}

// Load reads a run configuration from a YAML file.
func Load(path string) (store.RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return store.RunConfig{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML run configuration. Unknown fields are rejected to
// catch typos in run files.
func Parse(data []byte) (store.RunConfig, error) {
	var rf runFile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return store.RunConfig{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return store.RunConfig{
		Problem:            rf.Problem,
		Hamiltonian:        rf.Hamiltonian,
		Edges:              rf.Edges,
		DataPath:           rf.DataPath,
		Layers:             rf.Layers,
		Strategy:           rf.Strategy,
		Iters:              rf.Iters,
		Tolerance:          rf.Tolerance,
		Step:               rf.Step,
		Shift:              rf.Shift,
		Shots:              rf.Shots,
		MinShots:           rf.MinShots,
		PopSize:            rf.PopSize,
		Seed:               rf.Seed,
		CheckpointInterval: rf.CheckpointInterval,
	}, nil
}
