package skills

import (
	"github.com/junohq/agentskills/pkg/clients"
	markettypes "github.com/junohq/agentskills/pkg/types/market"
	skilltypes "github.com/junohq/agentskills/pkg/types/skills"
)

// BasicEnvironment is the default Environment implementation built with
// functional options.
type BasicEnvironment struct {
	providerClient clients.Client
	gatewayClient  clients.Client
	config         skilltypes.Config
	watchlistStore markettypes.WatchlistStore
}

var _ skilltypes.Environment = &BasicEnvironment{}

// EnvOption configures a BasicEnvironment.
type EnvOption func(*BasicEnvironment)

// WithProviderClient sets the provider (model) client slot.
func WithProviderClient(c clients.Client) EnvOption {
	return func(e *BasicEnvironment) { e.providerClient = c }
}

// WithGatewayClient sets the gateway (data) client slot.
func WithGatewayClient(c clients.Client) EnvOption {
	return func(e *BasicEnvironment) { e.gatewayClient = c }
}

// WithConfig sets the per-call configuration.
func WithConfig(cfg skilltypes.Config) EnvOption {
	return func(e *BasicEnvironment) { e.config = cfg }
}

// WithWatchlist sets the watchlist store.
func WithWatchlist(store markettypes.WatchlistStore) EnvOption {
	return func(e *BasicEnvironment) { e.watchlistStore = store }
}

// NewBasicEnvironment builds an environment from the given options.
// Unset client slots stay nil; skills resolve availability themselves.
func NewBasicEnvironment(opts ...EnvOption) *BasicEnvironment {
	env := &BasicEnvironment{}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

func (e *BasicEnvironment) ProviderClient() clients.Client        { return e.providerClient }
func (e *BasicEnvironment) GatewayClient() clients.Client         { return e.gatewayClient }
func (e *BasicEnvironment) Config() skilltypes.Config             { return e.config }
func (e *BasicEnvironment) Watchlist() markettypes.WatchlistStore { return e.watchlistStore }
