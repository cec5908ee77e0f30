package constants

// Centralized constants for env keys, routes and response fields.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvArenaConfig         = "ARENA_CONFIG"
	EnvArenaDB             = "ARENA_DB"

	// Session / Cookie names
	CookieSessionName = "arena_session"

	// Google OAuth constants
	GoogleOAuthRedirect = "postmessage"
	GoogleUserInfoURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

var (
	// Scopes for Google userinfo
	GoogleUserInfoScopes = []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"}
)

// Routes used by the backend router
const (
	RouteAPIPrefix          = "/api"
	RouteHealth             = "/health"
	RouteRegister           = "/auth/register"
	RouteLogin              = "/auth/login"
	RouteLogout             = "/auth/logout"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RouteProfile            = "/profile"
	RouteAllocateStats      = "/profile/stats"
	RouteInventory          = "/inventory"
	RouteShopCharacter      = "/shop/characters/roll"
	RouteShopWeapon         = "/shop/weapons/roll"
	RouteLeaderboard        = "/leaderboard"
	RouteWS                 = "/ws"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
)

// User-facing error strings returned by handlers.
const (
	ErrInvalidRequest         = "invalid request"
	ErrAuthRequired           = "authentication required"
	ErrInvalidSession         = "invalid session"
	ErrInvalidCredentials     = "invalid username or password"
	ErrUsernameTaken          = "username already exists"
	ErrMissingGoogleEnv       = "missing Google OAuth configuration"
	ErrFailedExchangeToken    = "failed to exchange OAuth token"
	ErrFailedFetchUserInfo    = "failed to fetch user info"
	ErrUserNotFound           = "user not found"
	ErrNotEnoughCoins         = "not enough coins"
	ErrNotEnoughStatPoints    = "not enough stat points"
	ErrShopUnavailable        = "shop is unavailable"
	ErrFailedFetchInventory   = "failed to fetch inventory"
	ErrFailedFetchLeaderboard = "failed to fetch leaderboard"
)

// Log field names
const (
	LogFieldAddr    = "addr"
	LogFieldUser    = "user"
	LogFieldConn    = "conn"
	LogFieldSession = "session"
)
