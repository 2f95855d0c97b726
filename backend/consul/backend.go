package consul

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/consul/api"
	"github.com/mwantia/modtree/backend"
)

// ConsulBackend exposes a subtree of the HashiCorp Consul KV store.
//
// Keys below the configured prefix are resources, key prefixes ending in "/"
// are containers. Consul KV has a 512KB limit per value, so the backend is best
// suited for configuration files and small modules.
type ConsulBackend struct {
	client *api.Client
	kv     *api.KV

	// Configuration
	config *ConsulBackendConfig
	prefix string
}

// ConsulBackendConfig contains configuration options for the Consul backend
type ConsulBackendConfig struct {
	// Address of the Consul server (default: "127.0.0.1:8500")
	Address string

	// Token for Consul ACL authentication (optional)
	Token string

	// Datacenter to use (optional)
	Datacenter string

	// Namespace for Consul Enterprise (optional)
	Namespace string

	// Prefix for all keys in Consul KV (default: "/")
	// This allows exposing only a subtree of the KV store
	Prefix string
}

// NewConsulBackend creates a new Consul KV backed backend
func NewConsulBackend(config *ConsulBackendConfig) (*ConsulBackend, error) {
	if config == nil {
		config = &ConsulBackendConfig{}
	}

	// Set defaults
	if config.Address == "" {
		config.Address = "127.0.0.1:8500"
	}

	if config.Prefix == "" {
		config.Prefix = "/"
	}

	// Create Consul client
	clientConfig := api.DefaultConfig()
	clientConfig.Address = config.Address
	if config.Token != "" {
		clientConfig.Token = config.Token
	}
	if config.Datacenter != "" {
		clientConfig.Datacenter = config.Datacenter
	}
	if config.Namespace != "" {
		clientConfig.Namespace = config.Namespace
	}

	client, err := api.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", backend.ErrMalformedAddress, err)
	}

	return &ConsulBackend{
		client: client,
		kv:     client.KV(),
		config: config,
		prefix: normalizePrefix(config.Prefix),
	}, nil
}

// Name returns the identifier name defined for this backend
func (*ConsulBackend) Name() string {
	return "consul"
}

// Open is part of the lifecycle behaviour and gets called when opening this backend
func (cb *ConsulBackend) Open(ctx context.Context) error {
	// Verify the agent is reachable
	if _, err := cb.client.Status().Leader(); err != nil {
		return fmt.Errorf("%w: %w", backend.ErrOpenFailed, err)
	}
	return nil
}

// Close is part of the lifecycle behaviour and gets called when closing this backend
func (cb *ConsulBackend) Close(ctx context.Context) error {
	// Nothing to clean up - Consul client is stateless
	return nil
}

// GetCapabilities returns a list of capabilities supported by this backend
func (cb *ConsulBackend) GetCapabilities() *backend.BackendCapabilities {
	return &backend.BackendCapabilities{
		Capabilities: []backend.BackendCapability{
			backend.CapabilityEnumerate,
			backend.CapabilityStreaming,
			backend.CapabilityPersistent,
			backend.CapabilityRemote,
			backend.CapabilityWritable,
		},
		// Consul KV has a default limit of 512KB per value
		MaxObjectSize: 512 * 1024,
	}
}

// Root returns the container at the configured prefix.
func (cb *ConsulBackend) Root(ctx context.Context) (backend.Store, error) {
	return backend.NewKeyspaceStore(cb, "consul://"+cb.config.Address+"/"+cb.prefix), nil
}

// buildKey constructs the full Consul KV key from the object key
func (cb *ConsulBackend) buildKey(key string) string {
	// Remove leading / from key if present
	return cb.prefix + strings.TrimPrefix(key, "/")
}

// normalizePrefix turns the configured prefix into "" or a key prefix ending in "/".
func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

func (cb *ConsulBackend) queryOptions(ctx context.Context) *api.QueryOptions {
	opts := &api.QueryOptions{}
	return opts.WithContext(ctx)
}
