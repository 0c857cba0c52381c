package apierror

// Error type URIs following the urn:replytrack:error:* pattern, used as
// the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:replytrack:error:validation"

	// TypeBadRequest indicates a malformed or invalid request (400)
	TypeBadRequest = "urn:replytrack:error:bad_request"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:replytrack:error:unauthorized"

	// TypeForbidden indicates insufficient permissions (403)
	TypeForbidden = "urn:replytrack:error:forbidden"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:replytrack:error:not_found"

	// TypeConflict indicates a resource conflict (409)
	TypeConflict = "urn:replytrack:error:conflict"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:replytrack:error:rate_limit"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:replytrack:error:internal"
)

// Human-readable titles for each error type.
const (
	TitleValidation   = "Validation Error"
	TitleBadRequest   = "Bad Request"
	TitleUnauthorized = "Authentication Required"
	TitleForbidden    = "Permission Denied"
	TitleNotFound     = "Resource Not Found"
	TitleConflict     = "Resource Conflict"
	TitleRateLimit    = "Rate Limit Exceeded"
	TitleInternal     = "Internal Server Error"
)
