package checkout

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// GatewayRegistry resolves payment gateway adapters by case-insensitive name
type GatewayRegistry struct {
	mu       sync.RWMutex
	gateways map[string]PaymentGateway
}

// NewGatewayRegistry creates a registry holding the given gateways
func NewGatewayRegistry(gateways ...PaymentGateway) *GatewayRegistry {
	r := &GatewayRegistry{gateways: make(map[string]PaymentGateway)}
	for _, g := range gateways {
		r.Register(g)
	}
	return r
}

// Register adds or replaces the adapter registered under g.Name()
func (r *GatewayRegistry) Register(g PaymentGateway) {
	if g == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gateways[registryKey(g.Name())] = g
}

// Resolve returns the adapter for name or ErrGatewayNotRegistered
func (r *GatewayRegistry) Resolve(name string) (PaymentGateway, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.gateways[registryKey(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrGatewayNotRegistered, strings.TrimSpace(name))
	}
	return g, nil
}

// Names lists registered gateway names in sorted order
func (r *GatewayRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.gateways))
	for _, g := range r.gateways {
		names = append(names, g.Name())
	}
	sort.Strings(names)
	return names
}

func registryKey(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
