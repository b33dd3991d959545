package access

// Reason codes form the stable vocabulary returned upward to handlers and
// appended (opaque) to denial redirects. Renaming one breaks deployed
// redirect consumers.
const (
	// Grants
	ReasonUserGlobalAllow = "user_global_allow"
	ReasonUserFileAllow   = "user_file_allow"
	ReasonRoleGlobalAllow = "role_global_allow"
	ReasonRoleFileAllow   = "role_file_allow"
	ReasonBotAccess       = "bot_access"
	ReasonTokenValid      = "token_valid"
	ReasonUnprotected     = "unprotected"
	ReasonUnmanagedPublic = "unmanaged_public"

	// Denials
	ReasonInvalidPath         = "invalid_path"
	ReasonUnmanagedRestricted = "unmanaged_restricted"
	ReasonRestrictedDefault   = "restricted_default"
	ReasonGlobalUserDeny      = "global_user_deny"
	ReasonFileUserDeny        = "file_user_deny"
	ReasonGlobalRoleDeny      = "global_role_deny"
	ReasonFileRoleDeny        = "file_role_deny"
	ReasonTokenNotFound       = "token_not_found"
	ReasonTokenWrongResource  = "token_invalid_resource"
	ReasonTokenExpired        = "token_expired"
	ReasonTokenUsedUp         = "token_used_limit_reached"
	ReasonTokenRevoked        = "token_revoked"
	ReasonTokenUsageError     = "token_usage_error"
)
