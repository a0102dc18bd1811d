package versions

import dErrors "assetgov/pkg/domain-errors"

var (
	ErrUnauthorized      = dErrors.New(dErrors.CodeForbidden, "caller is not a registry administrator")
	ErrNotReference      = dErrors.New(dErrors.CodeForbidden, "only the reference registry accepts new versions")
	ErrIsReference       = dErrors.New(dErrors.CodeForbidden, "the reference registry cannot fetch versions")
	ErrDuplicateVersion  = dErrors.New(dErrors.CodeConflict, "version already registered")
	ErrIncompleteBundle  = dErrors.New(dErrors.CodeValidation, "bundle must fill all six implementation slots")
	ErrUnknownVersion    = dErrors.New(dErrors.CodeNotFound, "version not registered")
	ErrAlreadyActive     = dErrors.New(dErrors.CodeConflict, "version is already active")
	ErrAlreadyFetched    = dErrors.New(dErrors.CodeConflict, "version already fetched")
	ErrNoActiveVersion   = dErrors.New(dErrors.CodeInvariantViolation, "registry has no active version")
	ErrNoReference       = dErrors.New(dErrors.CodeInvariantViolation, "no reference registry is configured")
	ErrZeroAddress       = dErrors.New(dErrors.CodeValidation, "address cannot be zero")
	ErrNotSuiteOwner     = dErrors.New(dErrors.CodeForbidden, "caller does not own every component of the suite")
	ErrVersionMismatch   = dErrors.New(dErrors.CodeValidation, "new authority must run the same version as this registry")
	ErrReferenceTarget   = dErrors.New(dErrors.CodeValidation, "new authority is a reference registry other than the current one")
	ErrInvalidAuthority  = dErrors.New(dErrors.CodeValidation, "new authority was not produced by the auxiliary factory")
	ErrNoFactory         = dErrors.New(dErrors.CodeInvariantViolation, "no auxiliary factory is configured")
	ErrUnknownAsset      = dErrors.New(dErrors.CodeNotFound, "asset not found")
	ErrCoordinatorTarget = dErrors.New(dErrors.CodeValidation, "coordinator does not point at this registry")
	ErrNotRequester      = dErrors.New(dErrors.CodeForbidden, "only a reference registry may request auxiliary registries")
)
