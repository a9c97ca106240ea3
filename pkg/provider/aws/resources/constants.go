package resources

const AWS_PROVIDER = "aws"

const (
	// TagEnvironment and TagManagedBy form the uniform tag set every created
	// resource carries; tag-policy enforcement rejects mutations without it.
	TagEnvironment = "Environment"
	TagManagedBy   = "ManagedBy"
)
