package deployment

import dErrors "assetgov/pkg/domain-errors"

var (
	ErrUnauthorized             = dErrors.New(dErrors.CodeForbidden, "caller is not a coordinator admin")
	ErrEmptyKey                 = dErrors.New(dErrors.CodeValidation, "deployment key is required")
	ErrKeyAlreadyUsed           = dErrors.New(dErrors.CodeConflict, "deployment key already used")
	ErrKeyNotFound              = dErrors.New(dErrors.CodeNotFound, "no suite deployed under key")
	ErrInvalidClaimPattern      = dErrors.New(dErrors.CodeValidation, "every trusted issuer needs exactly one topic list")
	ErrTooManyIssuers           = dErrors.New(dErrors.CodeValidation, "too many trusted issuers")
	ErrTooManyTopics            = dErrors.New(dErrors.CodeValidation, "too many required topics")
	ErrTooManyAgents            = dErrors.New(dErrors.CodeValidation, "too many agents")
	ErrTooManyModules           = dErrors.New(dErrors.CodeValidation, "too many compliance modules")
	ErrInvalidCompliancePattern = dErrors.New(dErrors.CodeValidation, "more compliance settings than modules")
	ErrInvalidAssetConfig       = dErrors.New(dErrors.CodeValidation, "asset name and symbol are required")
	ErrZeroAddress              = dErrors.New(dErrors.CodeValidation, "address cannot be zero")
	ErrUnknownModule            = dErrors.New(dErrors.CodeNotFound, "no compliance module deployed at address")
	ErrNoReference              = dErrors.New(dErrors.CodeInvariantViolation, "coordinator has no usable reference registry")
	ErrInvalidReference         = dErrors.New(dErrors.CodeValidation, "address is not a reference registry with an active version")
	ErrStorageNotFound          = dErrors.New(dErrors.CodeNotFound, "no eligibility storage deployed at address")
	ErrStorageNotOwned          = dErrors.New(dErrors.CodeForbidden, "suite owner does not own the eligibility storage")
	ErrNotDeployed              = dErrors.New(dErrors.CodeNotFound, "component was not deployed by this coordinator")
	ErrNoPendingOwner           = dErrors.New(dErrors.CodeConflict, "no ownership proposal for component")
	ErrNotPendingOwner          = dErrors.New(dErrors.CodeForbidden, "caller is not the proposed owner")
	ErrUnknownComponent         = dErrors.New(dErrors.CodeNotFound, "no suite component at address")
)
