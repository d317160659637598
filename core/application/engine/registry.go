package engine

import (
	"fmt"
	"slices"

	"github.com/scriptbridge/scriptbridge/core/domain"
	"github.com/scriptbridge/scriptbridge/core/domain/interfaces"
)

// Registry maps each source type to the adapter that serves it. It is
// assembled once at startup and never modified afterwards.
type Registry struct {
	adapters map[domain.SourceType]interfaces.Adapter
}

// NewRegistry builds a registry. Two adapters claiming the same source type
// is a configuration error.
func NewRegistry(adapters ...interfaces.Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[domain.SourceType]interfaces.Adapter, len(adapters))}
	for _, adapter := range adapters {
		if adapter == nil {
			return nil, fmt.Errorf("adapter is nil")
		}
		sourceType := adapter.SourceType()
		if _, exists := r.adapters[sourceType]; exists {
			return nil, fmt.Errorf("duplicate adapter for source type %s", sourceType)
		}
		r.adapters[sourceType] = adapter
	}
	return r, nil
}

// RequireAll fails unless every known source type has an adapter
func (r *Registry) RequireAll() error {
	var missing []string
	for _, sourceType := range domain.SourceTypes {
		if _, ok := r.adapters[sourceType]; !ok {
			missing = append(missing, string(sourceType))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no adapter registered for source type(s): %v", missing)
	}
	return nil
}

// Lookup returns the adapter for sourceType
func (r *Registry) Lookup(sourceType domain.SourceType) (interfaces.Adapter, bool) {
	adapter, ok := r.adapters[sourceType]
	return adapter, ok
}

// SourceTypes returns the registered source types, sorted
func (r *Registry) SourceTypes() []domain.SourceType {
	types := make([]domain.SourceType, 0, len(r.adapters))
	for sourceType := range r.adapters {
		types = append(types, sourceType)
	}
	slices.Sort(types)
	return types
}
