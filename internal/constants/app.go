package constants

// Application Information
const (
	AppName    = "DevHub Portal API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8080"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix   = "devhub:"
	CacheKeyService  = CacheKeyPrefix + "service:"
	CacheKeyServices = CacheKeyPrefix + "services:"
	CacheKeyTool     = CacheKeyPrefix + "tool:"
	CacheKeyTools    = CacheKeyPrefix + "tools:"
)

// Log Levels
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
	LogLevelFatal = "fatal"
)
