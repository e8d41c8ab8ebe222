package httpx

// Cookie names used by the auth handlers and middleware.
const (
	sessionCookieName = "session_id"
	oauthStateCookie  = "oauth_state"
	oauthNonceCookie  = "oauth_nonce"
	redirectCookie    = "post_login_redirect"
)

// Page template names. Each maps to a {{define}} block under
// web/templates/pages.
const (
	pageLogin        = "login"
	pageAccessDenied = "access-denied"
	pageChoosePath   = "choose-path"
	pageProjectWork  = "project-work"
	pageSupervisor   = "supervisor-dashboard"
	pageModerator    = "moderator-dashboard"
	pageExaminer     = "examiner-dashboard"
	pageManager      = "manager-dashboard"
	pageError        = "error"
)
