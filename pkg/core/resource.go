package core

import (
	"fmt"
	"strings"
)

type (
	// Resource is a single declared cloud resource. Implementations are plain
	// structs whose fields reference other resources either directly or via
	// [IaCValue]; the external provisioning engine infers ordering from those
	// references.
	Resource interface {
		// Id returns the id of the cloud resource
		Id() ResourceId
	}

	ResourceId struct {
		Provider string
		Type     string
		Name     string
	}

	// Taggable resources carry the uniform {Environment, ManagedBy} tag set
	// required by downstream tag-policy enforcement.
	Taggable interface {
		Resource
		ResourceTags() map[string]string
	}
)

func (id ResourceId) String() string {
	return fmt.Sprintf("%s:%s:%s", id.Provider, id.Type, id.Name)
}

func (id ResourceId) IsZero() bool {
	return id == ResourceId{}
}

// ParseResourceId is the inverse of [ResourceId.String].
func ParseResourceId(s string) (ResourceId, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return ResourceId{}, fmt.Errorf("invalid resource id %q", s)
	}
	return ResourceId{Provider: parts[0], Type: parts[1], Name: parts[2]}, nil
}
