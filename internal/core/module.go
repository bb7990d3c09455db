package core

import "sync"

// ModuleID uniquely identifies a module, namespaced by dots
// (e.g. "channel.telegram", "kv.redis", "store.sqlite").
type ModuleID string

// Namespace returns the portion of the ID before the first dot,
// or the whole ID if it has no namespace.
func (id ModuleID) Namespace() string {
	for i := 0; i < len(id); i++ {
		if id[i] == '.' {
			return string(id[:i])
		}
	}
	return string(id)
}

// ModuleInfo describes a registered module: its unique ID and a constructor
// for fresh instances.
type ModuleInfo struct {
	// ID is the unique module identifier.
	ID ModuleID

	// New returns a new, unconfigured instance of the module.
	New func() Module
}

// Module is the minimal interface every module must implement.
// Lifecycle behaviour is added by implementing the optional interfaces
// in lifecycle.go.
type Module interface {
	ModuleInfo() ModuleInfo
}

// serviceRegistry holds named runtime services that modules expose to each
// other (e.g. "kv.store", "store.users"). Lookups are by well-known name;
// callers type-assert the result.
type serviceRegistry struct {
	mu       sync.RWMutex
	services map[string]any
}

func newServiceRegistry() *serviceRegistry {
	return &serviceRegistry{services: make(map[string]any)}
}

// RegisterService makes a service available under the given name.
// A later registration under the same name replaces the earlier one.
func (ctx *AppContext) RegisterService(name string, svc any) {
	ctx.registry.mu.Lock()
	defer ctx.registry.mu.Unlock()
	ctx.registry.services[name] = svc
}

// GetService returns the service registered under name, or false if none.
func (ctx *AppContext) GetService(name string) (any, bool) {
	ctx.registry.mu.RLock()
	defer ctx.registry.mu.RUnlock()
	svc, ok := ctx.registry.services[name]
	return svc, ok
}
