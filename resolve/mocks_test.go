package resolve_test

import (
	"sync"

	"github.com/reglet-dev/drawhost/resolve"
)

// countingProber wraps the real filesystem probe and records every path.
type countingProber struct {
	mu     sync.Mutex
	probed []string
}

func (p *countingProber) Exists(path string) bool {
	p.mu.Lock()
	p.probed = append(p.probed, path)
	p.mu.Unlock()
	return resolve.OSProber{}.Exists(path)
}

func (p *countingProber) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.probed)
}

func (p *countingProber) Probed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.probed))
	copy(out, p.probed)
	return out
}
