package resources

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/orgforge/orgforge/pkg/core"
)

// ParsePolicyDocument decodes a config-supplied free-form document into a
// typed PolicyDocument. Statement resources given as plain strings become
// literal values; validation happened at config load, so a decode failure
// here means the document shape itself is wrong.
func ParsePolicyDocument(document map[string]any) (*PolicyDocument, error) {
	doc := &PolicyDocument{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     doc,
		DecodeHook: stringToIaCValueHook,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(document); err != nil {
		return nil, err
	}
	if doc.Version == "" {
		doc.Version = VERSION
	}
	return doc, nil
}

var iacValueType = reflect.TypeOf(core.IaCValue{})

func stringToIaCValueHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to != iacValueType {
		return data, nil
	}
	return core.LiteralValue(data.(string)), nil
}
