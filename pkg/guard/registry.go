package guard

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// DefaultProfile names the builtin allow-list used when no profile or custom
// pattern is configured: letters, digits, whitespace, hyphen and underscore.
const DefaultProfile = "standard"

// Profile declares a reusable, named allow-list pattern.
type Profile struct {
	Name        string
	Pattern     string
	Description string
}

// Registry maintains a threadsafe catalogue of named allow-list profiles.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

// NewRegistry creates an empty registry instance.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string]Profile)}
}

// Register inserts or replaces a profile definition. The pattern is compiled
// eagerly so broken profiles surface at registration, not at first use.
func (r *Registry) Register(profile Profile) error {
	if strings.TrimSpace(profile.Name) == "" {
		return fmt.Errorf("guard: registry profile name is required")
	}
	if _, err := NewValidator(profile.Pattern); err != nil {
		return fmt.Errorf("guard: registry profile %s: %w", profile.Name, err)
	}

	key := strings.ToLower(profile.Name)

	r.mu.Lock()
	r.profiles[key] = profile
	r.mu.Unlock()
	return nil
}

// RegisterAll adds multiple profiles.
func (r *Registry) RegisterAll(profiles []Profile) error {
	for _, profile := range profiles {
		if err := r.Register(profile); err != nil {
			return err
		}
	}
	return nil
}

// Resolve fetches a profile definition by name.
func (r *Registry) Resolve(name string) (Profile, bool) {
	if name == "" {
		return Profile{}, false
	}

	key := strings.ToLower(name)

	r.mu.RLock()
	profile, ok := r.profiles[key]
	r.mu.RUnlock()
	if !ok {
		return Profile{}, false
	}
	return profile, true
}

// Names lists the registered profile names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.profiles))
	for key := range r.profiles {
		names = append(names, key)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

var (
	defaultRegistry     = newRegistryWithBuiltins()
	defaultRegistryOnce sync.Once
)

// GlobalRegistry exposes the process-wide registry populated with builtin profiles.
func GlobalRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		if defaultRegistry == nil {
			defaultRegistry = newRegistryWithBuiltins()
		}
	})
	return defaultRegistry
}

func newRegistryWithBuiltins() *Registry {
	r := NewRegistry()
	_ = r.RegisterAll([]Profile{
		{
			Name:        "standard",
			Pattern:     `^[A-Za-z0-9\s\-_]*$`,
			Description: "letters, digits, whitespace, hyphen and underscore",
		},
		{
			Name:        "token",
			Pattern:     `^[A-Za-z0-9\-_]*$`,
			Description: "letters, digits, hyphen and underscore; no whitespace",
		},
		{
			Name:        "alphanumeric",
			Pattern:     `^[A-Za-z0-9]*$`,
			Description: "letters and digits only",
		},
		{
			Name:        "printable",
			Pattern:     `^[\x20-\x7E]*$`,
			Description: "any printable ASCII",
		},
	})
	return r
}
