package profile

import (
	"maps"

	"polysum/internal/domain/entity"
	"polysum/internal/langdetect"
)

// Registry maps language tags to profiles with a default fallback.
// It is read-only after construction and safe for concurrent use.
type Registry struct {
	def       Profile
	dedicated map[entity.LanguageTag]Profile
}

// NewRegistry builds a registry. The dedicated map is copied.
func NewRegistry(def Profile, dedicated map[entity.LanguageTag]Profile) *Registry {
	return &Registry{def: def, dedicated: maps.Clone(dedicated)}
}

// NewDefaultRegistry returns a registry with the built-in tables.
func NewDefaultRegistry() *Registry {
	return NewRegistry(DefaultProfile(), DedicatedProfiles())
}

// Default returns the fallback profile.
func (r *Registry) Default() Profile {
	return r.def
}

// Lookup returns the dedicated profile for tag, if any.
func (r *Registry) Lookup(tag entity.LanguageTag) (Profile, bool) {
	p, ok := r.dedicated[entity.NormalizeTag(string(tag))]
	return p, ok
}

// Resolve picks a profile for a request. An explicit tag with a dedicated
// profile wins; otherwise the sample text is run through the detector; otherwise
// the default profile is returned. Resolve never fails.
func (r *Registry) Resolve(tag entity.LanguageTag, sample string) Profile {
	if p, ok := r.Lookup(tag); ok {
		return p
	}
	if sample != "" {
		if p, ok := r.Lookup(langdetect.Detect(sample)); ok {
			return p
		}
	}
	return r.def
}

// Validate checks every profile held by the registry.
func (r *Registry) Validate() error {
	if err := r.def.Validate(); err != nil {
		return err
	}
	for _, p := range r.dedicated {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
