package expensegw

import (
	"net/http"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
	"github.com/Adi-21/bhidi0xgasless/internal/params"
)

const DefaultLanguage = "en-IN"

// Config is the per-request expense configuration read from headers.
type Config struct {
	APIKey          string
	SplitwiseToken  string
	SarvamKey       string
	DefaultGroupID  string
	DefaultCurrency string
	Language        string
}

// ConfigFromHeaders reads the expense headers. The Splitwise token is
// taken from the dedicated headers first and then from a bearer token.
func ConfigFromHeaders(h http.Header) Config {
	cfg := Config{
		APIKey:          core.APIKey(h),
		SplitwiseToken:  core.HeaderValue(h, "x-splitwise-key", "x-splitwise-token", "splitwise-key"),
		SarvamKey:       core.HeaderValue(h, "x-sarvam-key", "sarvam-api-key"),
		DefaultGroupID:  core.HeaderValue(h, "x-default-group-id"),
		DefaultCurrency: core.HeaderValue(h, "x-default-currency"),
		Language:        core.HeaderValue(h, "x-language"),
	}
	if cfg.SplitwiseToken == "" {
		cfg.SplitwiseToken = core.BearerToken(h)
	}
	if cfg.DefaultGroupID == "" {
		cfg.DefaultGroupID = params.DemoGroupID
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = params.DefaultCurrency
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	return cfg
}

func (c Config) options() params.ExpenseOptions {
	return params.ExpenseOptions{DefaultGroupID: c.DefaultGroupID, DefaultCurrency: c.DefaultCurrency}
}

// LogAttrs reports which secrets are present without their values.
func (c Config) LogAttrs() []any {
	return []any{
		"api_key_present", c.APIKey != "",
		"splitwise_token_present", c.SplitwiseToken != "",
		"sarvam_key_present", c.SarvamKey != "",
		"default_group_id", c.DefaultGroupID,
		"language", c.Language,
	}
}
