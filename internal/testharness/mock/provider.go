package mock

import (
	"github.com/railseq/railseq-go/pkg/supply"
)

// Provider resolves scripted supplies by name.
// Unknown names resolve to supply.ErrSupplyNotFound, which exercises the
// permissive-degradation path of the sequencer.
type Provider struct {
	rec      *Recorder
	supplies map[string]*Supply
}

// NewProvider creates a provider with one scripted supply per name,
// all recording into rec.
func NewProvider(rec *Recorder, names ...string) *Provider {
	p := &Provider{
		rec:      rec,
		supplies: make(map[string]*Supply, len(names)),
	}
	for _, name := range names {
		p.supplies[name] = NewSupply(name, rec)
	}
	return p
}

// Get resolves a scripted supply by name.
func (p *Provider) Get(name string) (supply.Supply, error) {
	s, exists := p.supplies[name]
	if !exists {
		return nil, supply.ErrSupplyNotFound
	}
	return s, nil
}

// Supply returns the scripted supply with the given name for scripting
// failures and inspecting state. Returns nil for unknown names.
func (p *Provider) Supply(name string) *Supply {
	return p.supplies[name]
}

// Compile-time interface satisfaction check.
var _ supply.Provider = (*Provider)(nil)
