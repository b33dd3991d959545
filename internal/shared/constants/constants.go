package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP headers
	HeaderContentType        = "Content-Type"
	HeaderContentLength      = "Content-Length"
	HeaderContentDisposition = "Content-Disposition"
	HeaderCacheControl       = "Cache-Control"
	HeaderExpires            = "Expires"
	HeaderPragma             = "Pragma"
	HeaderAuthorization      = "Authorization"
	HeaderXRequestID         = "X-Request-ID"
	HeaderXForwardedFor      = "X-Forwarded-For"
	HeaderUserAgent          = "User-Agent"

	// Offload headers, one per front-end family
	HeaderXAccelRedirect     = "X-Accel-Redirect"
	HeaderXLiteSpeedLocation = "X-LiteSpeed-Location"
	HeaderXSendfile          = "X-Sendfile"

	// Security headers applied to every served file
	HeaderXContentTypeOptions = "X-Content-Type-Options"
	HeaderXFrameOptions       = "X-Frame-Options"

	// Query parameters on the public file endpoint
	QueryAccessToken = "access_token"
	QueryErrorReason = "fg_error"

	// Context keys
	ContextKeyRequestID = "request_id"
	ContextKeyAdminSub  = "admin_subject"

	// Database table names owned by the gate
	TableResources    = "gate_resources"
	TableAccessTokens = "gate_access_tokens"
	TableSettings     = "gate_settings"

	// Host application tables read by the session authenticator
	TableAccounts = "accounts"

	ContentTypeBinary = "application/octet-stream"
)
