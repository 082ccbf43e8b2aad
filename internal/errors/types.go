package errors

import "errors"

var (
	ErrPipelineNotFound    = errors.New("pipeline file not found")
	ErrPipelineParseFailed = errors.New("pipeline parsing failed")
	ErrCredentialMissing   = errors.New("required credential unavailable")
	ErrCheckoutFailed      = errors.New("source checkout failed")
	ErrBuildFailed         = errors.New("module build failed")
	ErrPackageFailed       = errors.New("artifact packaging failed")
	ErrSignFailed          = errors.New("package signing failed")
	ErrRepoFailed          = errors.New("repository metadata generation failed")
	ErrArchiveFailed       = errors.New("release archival failed")
	ErrPublishFailed       = errors.New("release publish failed")
	ErrNotifyFailed        = errors.New("notification delivery failed")
	ErrRuntimeFailed       = errors.New("runtime operation failed")
	ErrConfigInvalid       = errors.New("configuration invalid")
)

// ShipKitError carries the operator-facing context, cause, and suggestion
// for a failure alongside the original error.
type ShipKitError struct {
	Type        error
	Context     string
	Cause       string
	Suggestion  string
	OriginalErr error
}

func (e *ShipKitError) Error() string {
	// OriginalErr may be nil when the failure has no underlying error,
	// only an operator-facing description.
	if e.OriginalErr != nil {
		return e.OriginalErr.Error()
	}
	if e.Cause != "" {
		return e.Cause
	}
	return e.Context
}

func (e *ShipKitError) Unwrap() error {
	return e.OriginalErr
}

func NewShipKitError(errorType error, context, cause, suggestion string, originalErr error) *ShipKitError {
	return &ShipKitError{
		Type:        errorType,
		Context:     context,
		Cause:       cause,
		Suggestion:  suggestion,
		OriginalErr: originalErr,
	}
}

func NewPipelineError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrPipelineNotFound, context, cause, suggestion, originalErr)
}

func NewParseError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrPipelineParseFailed, context, cause, suggestion, originalErr)
}

func NewCredentialError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrCredentialMissing, context, cause, suggestion, originalErr)
}

func NewCheckoutError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrCheckoutFailed, context, cause, suggestion, originalErr)
}

func NewBuildError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrBuildFailed, context, cause, suggestion, originalErr)
}

func NewPackageError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrPackageFailed, context, cause, suggestion, originalErr)
}

func NewSignError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrSignFailed, context, cause, suggestion, originalErr)
}

func NewRepoError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrRepoFailed, context, cause, suggestion, originalErr)
}

func NewArchiveError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrArchiveFailed, context, cause, suggestion, originalErr)
}

func NewPublishError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrPublishFailed, context, cause, suggestion, originalErr)
}

func NewNotifyError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrNotifyFailed, context, cause, suggestion, originalErr)
}

func NewRuntimeError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrRuntimeFailed, context, cause, suggestion, originalErr)
}

func NewConfigError(context, cause, suggestion string, originalErr error) *ShipKitError {
	return NewShipKitError(ErrConfigInvalid, context, cause, suggestion, originalErr)
}
