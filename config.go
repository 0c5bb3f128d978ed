package feecting

import "github.com/goliatone/go-feecting/internal/runtimeconfig"

var (
	ErrParserMaxDepthInvalid     = runtimeconfig.ErrParserMaxDepthInvalid
	ErrParserMaxTextInvalid      = runtimeconfig.ErrParserMaxTextInvalid
	ErrParserLocaleInvalid       = runtimeconfig.ErrParserLocaleInvalid
	ErrJobsTimeoutInvalid        = runtimeconfig.ErrJobsTimeoutInvalid
	ErrJobsStaggerInvalid        = runtimeconfig.ErrJobsStaggerInvalid
	ErrFetchTimeoutInvalid       = runtimeconfig.ErrFetchTimeoutInvalid
	ErrFetchMaxBytesInvalid      = runtimeconfig.ErrFetchMaxBytesInvalid
	ErrResponderKindUnknown      = runtimeconfig.ErrResponderKindUnknown
	ErrResponderEndpointRequired = runtimeconfig.ErrResponderEndpointRequired
	ErrAuditFeatureRequired      = runtimeconfig.ErrAuditFeatureRequired
	ErrAuditDSNRequired          = runtimeconfig.ErrAuditDSNRequired
	ErrAuditDriverUnknown        = runtimeconfig.ErrAuditDriverUnknown
	ErrSanitizePolicyUnknown     = runtimeconfig.ErrSanitizePolicyUnknown
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ParserConfig    = runtimeconfig.ParserConfig
	JobsConfig      = runtimeconfig.JobsConfig
	FetchConfig     = runtimeconfig.FetchConfig
	ResponderConfig = runtimeconfig.ResponderConfig
	AuditConfig     = runtimeconfig.AuditConfig
	SanitizeConfig  = runtimeconfig.SanitizeConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

// DefaultConfig returns the default module configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
