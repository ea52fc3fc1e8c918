// service/policy_provider.go
package service

import (
	"sync"

	"go.uber.org/zap"

	peac_errors "github.com/peacprotocol/peac-engine/errors"
	"github.com/peacprotocol/peac-engine/loader"
	logger "github.com/peacprotocol/peac-engine/logging"
	"github.com/peacprotocol/peac-engine/model"
)

// PolicyProvider owns the loaded policy document. The engine and the
// controllers borrow read-only references; only Reload swaps the document,
// atomically and never in place.
type PolicyProvider struct {
	path string

	mu  sync.RWMutex
	doc *model.PolicyDocument
}

func NewPolicyProvider(path string) *PolicyProvider {
	return &PolicyProvider{path: path}
}

// Load reads and validates the policy file. Must succeed once before the
// provider can serve documents.
func (p *PolicyProvider) Load() error {
	doc, err := loader.LoadFile(p.path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.doc = doc
	p.mu.Unlock()

	logger.Info("Policy document loaded",
		zap.String("path", p.path),
		zap.String("name", doc.Name),
		zap.Int("rules", len(doc.Rules)))
	return nil
}

// Reload re-reads the policy file. On failure the previous document stays
// in effect.
func (p *PolicyProvider) Reload() error {
	return p.Load()
}

// Current returns the active policy document.
func (p *PolicyProvider) Current() (*model.PolicyDocument, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.doc == nil {
		return nil, peac_errors.ErrPolicyNotLoaded
	}
	return p.doc, nil
}
