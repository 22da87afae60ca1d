package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrContention          = NewDomainError("CONTENTION", "Could not apply movement due to concurrent updates")
	ErrInvalidUnit         = NewDomainError("INVALID_UNIT", "Unknown unit")
	ErrInvalidQuantity     = NewDomainError("INVALID_QUANTITY", "Quantity must be a positive whole number")
	ErrInvalidConfig       = NewDomainError("INVALID_CONFIGURATION", "Product packaging configuration is invalid")
	ErrInvalidThreshold    = NewDomainError("INVALID_THRESHOLD", "Thresholds must not be negative")
	ErrDuplicateReference  = NewDomainError("DUPLICATE_REFERENCE", "A movement with this reference was already submitted")
)
