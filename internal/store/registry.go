package store

import (
	"fmt"

	"github.com/Chapsvision-dev/supabase-token/internal/config"
)

// Factory creates a store from the loaded config.
type Factory func(config.Config) (Store, error)

var registry = map[string]Factory{}

// Register binds a store name to its factory.
func Register(name string, f Factory) {
	registry[name] = f
}

// New returns a store instance by name.
func New(name string, cfg config.Config) (Store, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("session store not found: %s", name)
	}
	return f(cfg)
}
