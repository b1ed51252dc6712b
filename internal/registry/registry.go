// Package registry owns every live game instance and serializes access to
// each one. Instances themselves are plain values with no locking; all
// mutating calls from concurrent message handlers must go through With.
package registry

import (
	"sort"
	"sync"

	"github.com/hackvoyage/voyager/internal/instance"
)

// RegistryError is a custom error type for registry errors
type RegistryError string

// Error implements the error interface
func (e RegistryError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInstanceExists   RegistryError = "an instance already exists for this channel"
	ErrInstanceNotFound RegistryError = "no instance found for this channel"
)

// entry pairs an instance with the mutex that serializes calls into it
type entry struct {
	mu   sync.Mutex
	inst *instance.Instance
}

// Registry maps channel IDs to live game instances
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
	}
}

// Create builds a new instance for the channel named in cfg. At most one
// instance exists per channel.
func (r *Registry) Create(cfg *instance.Config) error {
	inst, err := instance.New(cfg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[cfg.ChannelID]; ok {
		return ErrInstanceExists
	}

	r.entries[cfg.ChannelID] = &entry{inst: inst}
	return nil
}

// With runs fn against the channel's instance while holding that instance's
// lock. All reads and mutations of an instance go through here.
func (r *Registry) With(channelID string, fn func(*instance.Instance) error) error {
	r.mu.Lock()
	e, ok := r.entries[channelID]
	r.mu.Unlock()

	if !ok {
		return ErrInstanceNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.inst)
}

// Has reports whether the channel has a live instance
func (r *Registry) Has(channelID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[channelID]
	return ok
}

// Remove destroys the channel's instance. Removing an unknown channel is a
// no-op.
func (r *Registry) Remove(channelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, channelID)
}

// Len returns the number of live instances
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// ChannelIDs returns the channels with live instances, sorted
func (r *Registry) ChannelIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, 0, len(r.entries))
	for channelID := range r.entries {
		ids = append(ids, channelID)
	}
	sort.Strings(ids)
	return ids
}
