package constants

// Centralized constants for headers, env keys and OpenAI integration.
const (
	// Environment variable keys
	EnvSessionSecret       = "SESSION_SECRET"
	EnvGoogleClientID      = "GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret  = "GOOGLE_CLIENT_SECRET"
	EnvOpenAIAPIKey        = "OPENAI_API_KEY"
	EnvSessionSecureCookie = "SESSION_SECURE_COOKIE"
	EnvConfigPath          = "DUNE_CONFIG_PATH"
	EnvDatabasePath        = "DUNE_DATABASE_PATH"

	// HTTP headers and content types
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"

	// Authorization prefix
	BearerPrefix = "Bearer "

	// OpenAI API endpoints and base URL
	OpenAIBaseURL             = "https://api.openai.com"
	OpenAIChatCompletionsPath = "/v1/chat/completions"

	// OpenAI model names and typical parameters
	OpenAIChatModel = "gpt-5-nano"

	// Session / Cookie names
	CookieSessionName = "d_session"

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
	RouteRules              = "/rules"
	RoutePublicGames        = "/public-games"
	RouteLeaderboard        = "/leaderboard"
	RouteAuthGoogleCallBack = "/auth/google/oauth2callback"
	RoutePlayerStats        = "/player-stats"
	RouteGames              = "/games"
	RouteGamesJoin          = "/games/join"
	RouteGameByID           = "/games/:gameID"
	RouteGameStart          = "/games/:gameID/start"
	RouteGameEnd            = "/games/:gameID/end"
	RouteGameLeave          = "/games/:gameID/leave"
	RouteGameBattle         = "/games/:gameID/battle"
	RouteGamePlan           = "/games/:gameID/battle/plan"
	RouteGamePlanValidate   = "/games/:gameID/battle/plan/validate"
	RouteGamePlanAgent      = "/games/:gameID/battle/plan/agent"
	RouteGameReports        = "/games/:gameID/reports"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyDetails = "details"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest         = "Invalid request"
	ErrMissingGoogleEnv       = "Missing GOOGLE_CLIENT_ID/GOOGLE_CLIENT_SECRET in environment"
	ErrInvalidGameID          = "Invalid game ID"
	ErrGameNotFound           = "Game not found"
	ErrFailedFetchGames       = "Failed to fetch games"
	ErrFailedFetchLeaderboard = "Failed to fetch leaderboard"
	ErrFailedEncodeGame       = "Failed to encode game"
	ErrFailedFetchStats       = "Failed to fetch stats"
	ErrFailedFetchReports     = "Failed to fetch battle reports"
	ErrEmailRequired          = "email is required"

	ErrFailedCreateGame             = "Failed to create game"
	ErrGameNameExceeds              = "Game name exceeds 32 characters"
	ErrDescriptionExceeds           = "Description exceeds 256 characters"
	ErrGameFull                     = "Game is full"
	ErrNotEnoughPlayers             = "Not enough players to start the game"
	ErrUnknownFaction               = "Unknown faction"
	ErrFactionTaken                 = "Faction already taken"
	ErrGameAlreadyStartingOrStarted = "Game is already starting or started"
	ErrFailedUpdateGame             = "Failed to update game"
	ErrFailedUpdateGameStatus       = "Failed to update game status"
	ErrFailedEndGame                = "Failed to end game"
	ErrFailedRemovePlayer           = "Failed to remove player"
	ErrPlayerNotInThisGame          = "Player not in this game"
	ErrPlayerRemovedFailedUpdate    = "Player removed, but failed to update game"
	ErrCannotLeaveAfterGameStarted  = "Cannot leave after the game has started"

	ErrFailedStorePlan        = "Failed to store battle plan"
	ErrGameNotInProgress      = "Game is not in progress"
	ErrNoBattleInProgress     = "No battle in progress"
	ErrPlansLockedResolving   = "Plans are locked; resolving current battle"
	ErrPlayerNotInGame        = "Player not in game"
	ErrNotABattleParticipant  = "Faction is not part of this battle"
	ErrPlanAlreadySubmitted   = "Battle plan already submitted"
	ErrAgentPlanFailed        = "Agent could not produce a legal battle plan"

	ErrFailedExchangeToken    = "Failed to exchange token"
	ErrFailedGetUserInfo      = "Failed to get user info"
	ErrFailedReadUserData     = "Failed to read user data: %s"
	ErrNoEmailInGoogleProfile = "No email in Google profile"
	ErrFailedCreateSession    = "Failed to create session"

	ErrAuthRequired   = "Authentication required"
	ErrInvalidSession = "Invalid session"
)

// Agent and OpenAI specific errors
const (
	ErrEnvNotSetFmt               = "%s not set on server"
	ErrFailedCreateRequest        = "Failed to create request"
	ErrRequestToOpenAIFailed      = "Request to OpenAI failed"
	ErrOpenAIChatFailed           = "OpenAI chat completion failed"
	ErrFailedDecodeOpenAIResponse = "Failed to decode OpenAI response"
	ErrOpenAIReturnedNoChoices    = "OpenAI returned no choices"
)

// Logging field names
const (
	LogFieldGameID    = "game_id"
	LogFieldFaction   = "faction"
	LogFieldTerritory = "territory"
	LogFieldSector    = "sector"
	LogFieldWinner    = "winner"
	LogFieldAddr      = "addr"
	LogFieldAttempt   = "attempt"
)
