package registry

// Registry defaults
const (
	// DefaultCapacity is the maximum sessions admitted per
	// conversation; the simplest mode is a two-party call.
	DefaultCapacity = 2
)
