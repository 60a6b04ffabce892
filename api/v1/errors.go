package v1

// ErrorCode is the machine readable kind of a management API error.
type ErrorCode string

// Error codes returned by the management API.
const (
	ErrInvalidToken         ErrorCode = "InvalidToken"
	ErrClusterNotAuthorized ErrorCode = "ClusterNotAuthorized"
	ErrClusterNameConflict  ErrorCode = "ClusterNameConflict"
	ErrClusterNotFound      ErrorCode = "ClusterNotFound"
	ErrClusterIsStateOwner  ErrorCode = "ClusterIsStateOwner"
	ErrStateNameConflict    ErrorCode = "StateNameConflict"
	ErrStateNotFound        ErrorCode = "StateNotFound"
	ErrAwsLocationExists    ErrorCode = "AwsLocationExists"
	ErrAzureLocationExists  ErrorCode = "AzureLocationExists"
	ErrUnknown              ErrorCode = "UnknownError"
)

// ErrorBody is the JSON envelope of a failed API call.
type ErrorBody struct {
	HTTPCode   int         `json:"httpCode"`
	HTTPStatus string      `json:"httpStatus"`
	Error      ErrorDetail `json:"error"`
	Msg        string      `json:"msg"`
}

// ErrorDetail carries the error code and its code-specific fields.
type ErrorDetail struct {
	ErrorCode    ErrorCode   `json:"errorCode"`
	Cluster      ClusterName `json:"cluster,omitempty"`
	State        StateName   `json:"state,omitempty"`
	Region       string      `json:"region,omitempty"`
	Permission   string      `json:"permission,omitempty"`
	ResourceName string      `json:"resourceName,omitempty"`
	ResourceType string      `json:"resourceType,omitempty"`
	Message      string      `json:"message,omitempty"`
}

// IsConflict reports whether the code describes an already existing resource.
func (c ErrorCode) IsConflict() bool {
	switch c {
	case ErrClusterNameConflict, ErrStateNameConflict, ErrAwsLocationExists, ErrAzureLocationExists:
		return true
	}
	return false
}

// IsNotFound reports whether the code describes a missing resource.
func (c ErrorCode) IsNotFound() bool {
	return c == ErrClusterNotFound || c == ErrStateNotFound
}
