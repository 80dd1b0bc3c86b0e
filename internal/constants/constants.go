package constants

const (
	// ContextKeyAccountID is the session and gin context key holding the acting account ID.
	ContextKeyAccountID = "account_id"
	// ContextKeyAccount is the gin context key holding the loaded acting account.
	ContextKeyAccount = "account"

	// SessionCookieName is the cookie shared with the identity service.
	SessionCookieName = "dropoff_session"

	// Pagination defaults for skip/limit listings.
	DefaultPageSize = 100
	MaxPageSize     = 1000

	// MaxTitleLength bounds drop-off point titles.
	MaxTitleLength = 255
)
