package usecases

import (
	"crypto/sha256"
	"html"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// manualNames maps known spelling variants to the canonical display name
// before keying, so equivalent names collide to the same registry key.
var manualNames = map[string]string{
	"Domino's Pizza": "Domino's",
}

// NameRegistry canonicalizes merchant display names and assigns stable
// merchant identifiers. It is scoped to a single run: created fresh at run
// start, shared by the merge resolver and the source connectors, discarded
// at run end. Registration is guarded by a mutex since source fetches may
// register concurrently.
type NameRegistry struct {
	mu    sync.Mutex
	names map[string]string
	logos map[string]string
	ids   map[string]string
}

func NewNameRegistry() *NameRegistry {
	return &NameRegistry{
		names: make(map[string]string),
		logos: make(map[string]string),
		ids:   make(map[string]string),
	}
}

// RemoveSuffix strips a single trailing marketing suffix, folds the Unicode
// right single quote into an ASCII apostrophe and trims whitespace.
func RemoveSuffix(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, " usd"), strings.HasSuffix(lower, " usa"):
		name = name[:len(name)-4]
	case strings.HasSuffix(lower, " us"):
		name = name[:len(name)-3]
	case strings.HasSuffix(name, "®"):
		name = strings.TrimSuffix(name, "®")
	case strings.HasSuffix(name, "(Same Day Delivery)"):
		name = strings.TrimSuffix(name, "(Same Day Delivery)")
	}
	return strings.TrimSpace(strings.ReplaceAll(name, "’", "'"))
}

// key lowercases and removes apostrophes, applying the manual override
// table first.
func key(name string) string {
	if override, ok := manualNames[name]; ok {
		name = override
	}
	return strings.ReplaceAll(strings.ToLower(name), "'", "")
}

// Register records the first-seen canonical name, logo and merchant id for
// the name's key. Later calls with the same key do not overwrite.
func (r *NameRegistry) Register(name, logo, merchantID string) {
	if name == "" {
		return
	}
	name = RemoveSuffix(name)
	k := key(name)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.names[k]; !ok {
		r.names[k] = name
	}
	if logo != "" {
		if _, ok := r.logos[k]; !ok {
			r.logos[k] = logo
		}
	}
	if merchantID != "" {
		if _, ok := r.ids[k]; !ok {
			r.ids[k] = merchantID
		}
	}
}

// CanonicalName returns the registered display name for the key if present,
// else the suffix-stripped, entity-unescaped input.
func (r *NameRegistry) CanonicalName(name string) string {
	if name == "" {
		return ""
	}
	name = html.UnescapeString(RemoveSuffix(name))

	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.names[key(name)]; ok {
		return stored
	}
	return name
}

// Logo returns the registered logo URL for the name's key, or "".
func (r *NameRegistry) Logo(name string) string {
	if name == "" {
		return ""
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.logos[key(RemoveSuffix(name))]
}

// StableID returns the merchant id registered for the name's key. When no
// id was registered it derives one deterministically from a SHA-256 hash of
// the canonical name (first 16 bytes folded into a UUID), registers it and
// returns it. The same name always yields the same id, within a run and
// across independent runs.
func (r *NameRegistry) StableID(name string) string {
	normalized := RemoveSuffix(name)
	k := key(normalized)

	r.mu.Lock()
	defer r.mu.Unlock()
	if id, ok := r.ids[k]; ok {
		return id
	}
	id := deterministicUUID(normalized).String()
	r.ids[k] = id
	return id
}

func deterministicUUID(name string) uuid.UUID {
	sum := sha256.Sum256([]byte(name))
	id, _ := uuid.FromBytes(sum[:16])
	return id
}
