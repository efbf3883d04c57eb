// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedDocument []byte

// SeedProvider serves the small catalog compiled into the binary.
// It keeps the service answering when every external source is down.
type SeedProvider struct{}

// NewSeedProvider returns the embedded seed provider.
func NewSeedProvider() *SeedProvider {
	return &SeedProvider{}
}

// Name implements [Provider].
func (provider *SeedProvider) Name() string {
	return "seed"
}

// Load implements [Provider].
func (provider *SeedProvider) Load(context.Context) ([]Row, error) {
	var document struct {
		Movies []Row `yaml:"movies"`
	}
	if err := yaml.Unmarshal(seedDocument, &document); err != nil {
		return nil, fmt.Errorf("seed: decode embedded catalog: %w", err)
	}
	return document.Movies, nil
}
