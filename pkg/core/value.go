package core

import (
	"encoding/json"
	"fmt"
)

const (
	ID_PROPERTY      = "id"
	ARN_PROPERTY     = "arn"
	NAME_PROPERTY    = "name"
	ROOT_ID_PROPERTY = "root_id"

	ALL_RESOURCES_VALUE = "*"
)

// IaCValue is a deferred reference to a property of a resource that only the
// provisioning engine can materialize. A value with a nil Resource is a
// literal whose content is held in Property. Consumers must pass values
// through to other resource declarations; they may never branch on content.
type IaCValue struct {
	Resource Resource
	Property string
}

func LiteralValue(v string) IaCValue {
	return IaCValue{Property: v}
}

func PropertyOf(res Resource, property string) IaCValue {
	return IaCValue{Resource: res, Property: property}
}

func (v IaCValue) IsZero() bool {
	return v.Resource == nil && v.Property == ""
}

// String renders the engine-facing token form, e.g.
// "${aws:iam_role:admin#arn}". Literals render as-is.
func (v IaCValue) String() string {
	if v.Resource == nil {
		return v.Property
	}
	return fmt.Sprintf("${%s#%s}", v.Resource.Id(), v.Property)
}

// Values always serialize as their token form; emitted artifacts must never
// inline the referenced resource.
func (v IaCValue) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

func (v IaCValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}
