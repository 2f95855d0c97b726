package backend

import "slices"

// BackendCapability represents a capability that a backend can provide
type BackendCapability string

const (
	CapabilityEnumerate  BackendCapability = "enumerate"
	CapabilityStreaming  BackendCapability = "streaming"
	CapabilityPersistent BackendCapability = "persistent"
	CapabilityRemote     BackendCapability = "remote"
	CapabilityArchive    BackendCapability = "archive"
	CapabilityWritable   BackendCapability = "writable"
)

// BackendCapabilities describes what a backend supports
type BackendCapabilities struct {
	Capabilities  []BackendCapability `json:"capabilities"`
	MaxObjectSize int64               `json:"max_object_size,omitempty"`
}

// Contains checks if a capability is supported
func (bc *BackendCapabilities) Contains(cap BackendCapability) bool {
	if bc == nil {
		return false
	}
	return slices.Contains(bc.Capabilities, cap)
}

// Strings returns the capability names in declaration order.
func (bc *BackendCapabilities) Strings() []string {
	if bc == nil {
		return nil
	}

	names := make([]string, 0, len(bc.Capabilities))
	for _, c := range bc.Capabilities {
		names = append(names, string(c))
	}
	return names
}
