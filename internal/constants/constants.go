package constants

// Centralized constants for env keys, routes, message types and error strings.
const (
	// Environment variable keys
	EnvConfigPath = "BATTLECARD_CONFIG"
	EnvDBPath     = "BATTLECARD_DB"
	EnvDebug      = "BATTLECARD_DEBUG"

	// HTTP headers and content types
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Routes used by the backend router
const (
	RouteAPIPrefix      = "/api"
	RouteHealthcheck    = "/healthcheck"
	RouteAIDifficulties = "/ai-difficulties"
	RoutePlayerStats    = "/player-stats/:name"
	RouteLeaderboard    = "/leaderboard"
	RouteGameSocket     = "/ws/game"
)

// Websocket message types, inbound (client -> server)
const (
	MsgJoin       = "join"
	MsgSubmitDeck = "submit_deck"
	MsgPlay       = "play"
	MsgLeave      = "leave"
)

// Websocket message types, outbound (server -> client)
const (
	MsgWaiting      = "waiting"
	MsgMatched      = "matched"
	MsgDeckPhase    = "deck_phase"
	MsgDeckAccepted = "deck_accepted"
	MsgDeckRejected = "deck_rejected"
	MsgTurnState    = "turn_state"
	MsgSubmitted    = "submitted"
	MsgRoundEnd     = "round_end"
	MsgOpponentLeft = "opponent_left"
	MsgError        = "error"
)

// Common JSON response keys
const (
	JSONKeyError   = "error"
	JSONKeyMessage = "message"
	JSONKeyStatus  = "status"
)

// Common error messages used across API handlers
const (
	ErrInvalidRequest      = "Invalid request"
	ErrPlayerNotFound      = "Player not found"
	ErrFailedFetchStats    = "Failed to fetch stats"
	ErrFailedFetchTop      = "Failed to fetch leaderboard"
	ErrUnknownMessageType  = "Unknown message type"
	ErrNotInRoom           = "Not in a game room"
	ErrInvalidCardIndex    = "Invalid card index."
	ErrAlreadySubmitted    = "Action already submitted this turn"
	ErrWrongPhase          = "Action not allowed in current phase"
	ErrNameRequired        = "name is required"
	ErrUnknownCharacter    = "Unknown character"
	ErrUnknownDifficulty   = "Unknown AI difficulty"
	ErrDeckWhileNotInDeckb = "Deck can only be submitted during deck building"
)

// Logging field names
const (
	LogFieldRoomID     = "room_id"
	LogFieldPlayerID   = "player_id"
	LogFieldPlayerName = "player_name"
	LogFieldTurn       = "turn"
	LogFieldPhase      = "phase"
	LogFieldDifficulty = "difficulty"
	LogFieldAddr       = "addr"
	LogFieldReason     = "reason"
)
