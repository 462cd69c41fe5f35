// Package platform holds the static registry of known marketplaces. Trust
// weights bias confidence and recommendation scoring; the table is data, so
// marketplaces can be added without touching the scoring code.
package platform

import "strings"

// Info describes one known marketplace.
type Info struct {
	Name string
	// TrustWeight is the static per-marketplace reliability score (0-100).
	TrustWeight float64
	// LowTrust marks platforms designated dropship-prone. Candidates from
	// these platforms contribute to dropship-indicator flagging.
	LowTrust bool
	// FulfillmentPriority orders platforms for the "fastest" recommendation.
	// Lower is faster; domestic/established platforms come first.
	FulfillmentPriority int
	// ScoreAdjustment is added to the single-listing authenticity score for
	// listings hosted on this platform.
	ScoreAdjustment float64
}

// DefaultTrustWeight is used for platforms not present in the registry.
const DefaultTrustWeight = 50

// defaultPlatforms is the built-in marketplace table.
var defaultPlatforms = []Info{
	{Name: "amazon", TrustWeight: 90, FulfillmentPriority: 1, ScoreAdjustment: 10},
	{Name: "walmart", TrustWeight: 87, FulfillmentPriority: 2},
	{Name: "ebay", TrustWeight: 85, FulfillmentPriority: 3, ScoreAdjustment: 10},
	{Name: "etsy", TrustWeight: 88, FulfillmentPriority: 4, ScoreAdjustment: 15},
	{Name: "target", TrustWeight: 86, FulfillmentPriority: 5},
	{Name: "mercari", TrustWeight: 75, FulfillmentPriority: 6},
	{Name: "poshmark", TrustWeight: 72, FulfillmentPriority: 7},
	{Name: "aliexpress", TrustWeight: 55, LowTrust: true, FulfillmentPriority: 8},
	{Name: "temu", TrustWeight: 50, LowTrust: true, FulfillmentPriority: 9},
	{Name: "dhgate", TrustWeight: 48, LowTrust: true, FulfillmentPriority: 10},
	{Name: "wish", TrustWeight: 45, LowTrust: true, FulfillmentPriority: 11},
}

// Registry is a read-only lookup table of known marketplaces. Safe for
// concurrent use: it is never mutated after construction.
type Registry struct {
	byName map[string]Info
	order  []string
}

// NewRegistry builds a registry from the built-in marketplace table.
func NewRegistry() *Registry {
	return NewRegistryWith(defaultPlatforms)
}

// NewRegistryWith builds a registry from a custom platform table.
func NewRegistryWith(platforms []Info) *Registry {
	r := &Registry{
		byName: make(map[string]Info, len(platforms)),
		order:  make([]string, 0, len(platforms)),
	}
	for _, p := range platforms {
		key := normalize(p.Name)
		if key == "" {
			continue
		}
		if _, exists := r.byName[key]; !exists {
			r.order = append(r.order, key)
		}
		r.byName[key] = p
	}
	return r
}

// Lookup returns platform info by name, case-insensitively.
func (r *Registry) Lookup(name string) (Info, bool) {
	info, ok := r.byName[normalize(name)]
	return info, ok
}

// TrustWeight returns the trust weight for a platform, falling back to
// DefaultTrustWeight for unknown platforms.
func (r *Registry) TrustWeight(name string) float64 {
	if info, ok := r.Lookup(name); ok {
		return info.TrustWeight
	}
	return DefaultTrustWeight
}

// IsLowTrust reports whether the platform is designated low-trust.
// Unknown platforms are not low-trust.
func (r *Registry) IsLowTrust(name string) bool {
	info, ok := r.Lookup(name)
	return ok && info.LowTrust
}

// ScoreAdjustment returns the authenticity score adjustment for a platform.
func (r *Registry) ScoreAdjustment(name string) float64 {
	if info, ok := r.Lookup(name); ok {
		return info.ScoreAdjustment
	}
	return 0
}

// FulfillmentPriority returns the fulfillment ordering for a platform.
// Unknown platforms sort after every registered one.
func (r *Registry) FulfillmentPriority(name string) int {
	if info, ok := r.Lookup(name); ok {
		return info.FulfillmentPriority
	}
	return len(r.order) + 1
}

// Names returns the registered platform names in declaration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// All returns the registered platforms in declaration order.
func (r *Registry) All() []Info {
	infos := make([]Info, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, r.byName[name])
	}
	return infos
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
