package apierror

// Problem type URIs used as the "type" member of RFC 9457 responses.
const (
	TypeValidation   = "urn:habitrack:error:validation"
	TypeNotFound     = "urn:habitrack:error:not_found"
	TypeRateLimit    = "urn:habitrack:error:rate_limit"
	TypeUnauthorized = "urn:habitrack:error:unauthorized"
	TypeInternal     = "urn:habitrack:error:internal"
	TypeUnavailable  = "urn:habitrack:error:unavailable"
	TypeBadRequest   = "urn:habitrack:error:bad_request"

	// TypeInvalidUUID is returned for path ids that are not UUIDs (400)
	TypeInvalidUUID = "urn:habitrack:error:invalid_uuid"

	// TypeFutureTimestamp is returned for logs dated more than a minute ahead (400)
	TypeFutureTimestamp = "urn:habitrack:error:future_timestamp"

	// TypeInvalidPeriod is returned for an unknown completion-rate period (400)
	TypeInvalidPeriod = "urn:habitrack:error:invalid_period"
)

const (
	TitleValidation      = "Validation Error"
	TitleNotFound        = "Resource Not Found"
	TitleRateLimit       = "Rate Limit Exceeded"
	TitleUnauthorized    = "Authentication Required"
	TitleInternal        = "Internal Server Error"
	TitleUnavailable     = "Service Unavailable"
	TitleBadRequest      = "Bad Request"
	TitleInvalidUUID     = "Invalid UUID Format"
	TitleFutureTimestamp = "Future Timestamp Not Allowed"
	TitleInvalidPeriod   = "Invalid Period"
)
