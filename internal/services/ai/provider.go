package ai

import "context"

// Generator is the interface for text-generation providers. Implementations
// must honor ctx cancellation so callers can bound request latency.
type Generator interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFactory creates a generator from provider configuration
type GeneratorFactory func(config map[string]string) (Generator, error)

// Registry stores available generator factories keyed by provider name
type Registry struct {
	factories map[string]GeneratorFactory
}

// NewRegistry creates a new generator registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]GeneratorFactory),
	}
}

// Register registers a generator factory
func (r *Registry) Register(name string, factory GeneratorFactory) {
	r.factories[name] = factory
}

// Get builds a generator by provider name
func (r *Registry) Get(name string, config map[string]string) (Generator, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, &ErrProviderNotFound{Name: name}
	}
	return factory(config)
}

// ErrProviderNotFound is returned when a provider is not registered
type ErrProviderNotFound struct {
	Name string
}

func (e *ErrProviderNotFound) Error() string {
	return "text generation provider not found: " + e.Name
}
