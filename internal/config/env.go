package config

import (
	"strconv"

	"github.com/joeshaw/envdecode"
	"github.com/rs/zerolog"
)

// DefaultMinimumTokens is used when DEFAULT_MINIMUM_TOKENS is unset,
// unparsable, or non-positive.
const DefaultMinimumTokens = 10000

// Settings carries the environment-provided knobs. Defaults are supplied via
// struct tags; values are kept raw so parse failures can fall back with a
// warning instead of aborting startup.
type Settings struct {
	// Transport selects the delivery channel. Anything other than "http"
	// means stdio. ENV: TRANSPORT
	Transport string `env:"TRANSPORT,default="`

	// MinimumTokensRaw is the lower bound applied to per-request token
	// budgets. ENV: DEFAULT_MINIMUM_TOKENS
	MinimumTokensRaw string `env:"DEFAULT_MINIMUM_TOKENS,default="`
}

// LoadSettings decodes Settings from the environment. No field is required,
// so decoding cannot fail in a way that matters here.
func LoadSettings() Settings {
	var s Settings
	_ = envdecode.Decode(&s)
	return s
}

// MinimumTokens resolves the configured token floor. Unset uses the default;
// unparsable or non-positive values warn and use the default.
func (s Settings) MinimumTokens(logger zerolog.Logger) int {
	if s.MinimumTokensRaw == "" {
		return DefaultMinimumTokens
	}
	n, err := strconv.Atoi(s.MinimumTokensRaw)
	if err != nil || n <= 0 {
		logger.Warn().
			Str("value", s.MinimumTokensRaw).
			Int("default", DefaultMinimumTokens).
			Msg("invalid DEFAULT_MINIMUM_TOKENS, using default")
		return DefaultMinimumTokens
	}
	return n
}
