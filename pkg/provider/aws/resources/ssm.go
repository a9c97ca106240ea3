package resources

import (
	"fmt"

	"github.com/orgforge/orgforge/pkg/core"
	"github.com/orgforge/orgforge/pkg/sanitization/aws"
)

const (
	SSM_PARAMETER_TYPE = "ssm_parameter"

	// Projected stack outputs persist as SecureString parameters so they are
	// encrypted at rest.
	SSM_PARAMETER_SECURE_STRING = "SecureString"
)

var parameterSanitizer = aws.SsmParameterSanitizer

type (
	// SsmParameter persists a projected output bundle under a fixed path
	// convention (/organization/..., /environments/{env}/...). Values hold
	// identifiers and ARNs only; raw secrets are never written here.
	SsmParameter struct {
		Name          string
		ParameterName string
		Type          string
		Values        map[string]core.IaCValue
		Tags          map[string]string
	}
)

type SsmParameterCreateParams struct {
	Name   string
	Path   string
	Values map[string]core.IaCValue
	Tags   map[string]string
}

func (param *SsmParameter) Create(dag *core.ResourceGraph, params SsmParameterCreateParams) error {
	param.Name = policySanitizer.Apply(params.Name)
	param.ParameterName = parameterSanitizer.Apply(params.Path)
	param.Type = SSM_PARAMETER_SECURE_STRING
	param.Values = params.Values
	param.Tags = params.Tags

	if dag.GetResource(param.Id()) != nil {
		return fmt.Errorf("ssm parameter %s already exists", param.Name)
	}
	dag.AddDependenciesReflect(param)
	return nil
}

func (param *SsmParameter) Id() core.ResourceId {
	return core.ResourceId{Provider: AWS_PROVIDER, Type: SSM_PARAMETER_TYPE, Name: param.Name}
}

func (param *SsmParameter) ResourceTags() map[string]string {
	return param.Tags
}
