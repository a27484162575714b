package common

// AuthorizationHeader carries bearer tokens on protected requests.
const AuthorizationHeader = "Authorization"

// BearerScheme is the only authorization scheme the API accepts.
const BearerScheme = "Bearer"

// TokenTypeBearer is reported to clients alongside issued tokens.
const TokenTypeBearer = "bearer"
