package posts

import "github.com/goliatone/go-posts/internal/runtimeconfig"

var (
	ErrPostsDirRequired        = runtimeconfig.ErrPostsDirRequired
	ErrListingExtensionInvalid = runtimeconfig.ErrListingExtensionInvalid
	ErrHighlightStyleUnknown   = runtimeconfig.ErrHighlightStyleUnknown
	ErrSummaryWorkersInvalid   = runtimeconfig.ErrSummaryWorkersInvalid
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	ListingConfig   = runtimeconfig.ListingConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	HighlightConfig = runtimeconfig.HighlightConfig
	SummaryConfig   = runtimeconfig.SummaryConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

// DefaultConfig returns the default module configuration.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
