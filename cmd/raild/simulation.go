package main

import (
	"log/slog"
	"time"

	"github.com/railseq/railseq-go/pkg/config"
	"github.com/railseq/railseq-go/pkg/supply"
)

// simulatedSwitchLatency models the switching time of a real regulator.
const simulatedSwitchLatency = 50 * time.Microsecond

// buildRegistry creates one simulated supply per distinct supply name in
// the configuration. Supplies shared between rails are registered once.
func buildRegistry(cfg *config.Config, logger *slog.Logger) *supply.Registry {
	registry := supply.NewRegistry()

	for _, rail := range cfg.Rails {
		for _, sc := range rail.Supplies {
			sim := supply.NewSimulated(sc.Name)
			sim.SwitchLatency = simulatedSwitchLatency
			if err := registry.Add(sim); err != nil {
				// Already registered by another rail sharing the supply.
				continue
			}
			logger.Debug("simulated supply registered", "supply", sc.Name)
		}
	}

	logger.Info("simulation registry ready", "supplies", registry.Len())
	return registry
}
