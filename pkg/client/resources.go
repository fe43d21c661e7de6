package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/result"
	"github.com/google/uuid"
)

var (
	isTokenQuery      = url.Values{"is_token": {"true"}}
	mustBeUnusedQuery = url.Values{"must_be_unused": {"true"}}
)

type validateTokenPayload struct {
	Token string `json:"token"`
}

// Languages lists every language the platform supports.
func (c *Client) Languages(ctx context.Context) (result.Result[[]domain.LanguageData], error) {
	return fetchData[[]domain.LanguageData](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "all-languages")})
}

// PrefilledMessages fetches the catalog used to prefill new blocks.
func (c *Client) PrefilledMessages(ctx context.Context) (result.Result[domain.PrefilledMessages], error) {
	return fetchData[domain.PrefilledMessages](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "prefilled-messages")})
}

// ListSecrets returns the names of the user's secrets.
func (c *Client) ListSecrets(ctx context.Context) (result.Result[[]string], error) {
	return fetchData[[]string](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "secrets")})
}

// SaveSecret stores a plain secret value.
func (c *Client) SaveSecret(ctx context.Context, name, value string) (result.Result[any], error) {
	return fetchTrivial(ctx, c, request{method: http.MethodPost, url: c.apiURL(nil, "secrets", name), body: []byte(value)})
}

// SaveTokenSecret stores a bot token as a secret. The backend validates it as a token.
func (c *Client) SaveTokenSecret(ctx context.Context, name, token string) (result.Result[any], error) {
	return fetchTrivial(ctx, c, request{method: http.MethodPost, url: c.apiURL(isTokenQuery, "secrets", name), body: []byte(token)})
}

// DeleteSecret removes a secret.
func (c *Client) DeleteSecret(ctx context.Context, name string) (result.Result[any], error) {
	return fetchTrivial(ctx, c, request{method: http.MethodDelete, url: c.apiURL(nil, "secrets", name)})
}

// CreateBotTokenSecret saves token under a fresh secret name derived from botName and
// returns that name.
func (c *Client) CreateBotTokenSecret(ctx context.Context, botName, token string) (result.Result[string], error) {
	name := TokenSecretName(botName)
	res, err := c.SaveTokenSecret(ctx, name, token)
	if err != nil {
		return result.Result[string]{}, err
	}
	return result.Map(res, func(any) string { return name }), nil
}

// TokenSecretName generates "<bot>-token-<8 hex chars>".
func TokenSecretName(botName string) string {
	return botName + "-token-" + uuid.NewString()[:8]
}

// ValidateToken checks a bot token and returns the bot it belongs to.
func (c *Client) ValidateToken(ctx context.Context, token string) (result.Result[domain.BotTokenValidationResult], error) {
	r, err := jsonRequest(http.MethodPost, c.apiURL(nil, "validate-token"), validateTokenPayload{Token: token})
	if err != nil {
		return result.Result[domain.BotTokenValidationResult]{}, err
	}
	return fetchData[domain.BotTokenValidationResult](ctx, c, r)
}

// ValidateUnusedToken checks a bot token and that no other bot uses it.
func (c *Client) ValidateUnusedToken(ctx context.Context, token string) (result.Result[any], error) {
	r, err := jsonRequest(http.MethodPost, c.apiURL(mustBeUnusedQuery, "validate-token"), validateTokenPayload{Token: token})
	if err != nil {
		return result.Result[any]{}, err
	}
	return fetchTrivial(ctx, c, r)
}

// GetBotConfig fetches the latest stored config of a bot.
func (c *Client) GetBotConfig(ctx context.Context, botID string) (result.Result[domain.BotConfig], error) {
	return fetchData[domain.BotConfig](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "config", botID)})
}

// ListBotConfigs fetches the latest config of every bot, keyed by bot id.
func (c *Client) ListBotConfigs(ctx context.Context) (result.Result[map[string]domain.BotConfig], error) {
	return fetchData[map[string]domain.BotConfig](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "config")})
}

// SaveBotConfig stores a new config version.
func (c *Client) SaveBotConfig(ctx context.Context, botID string, payload domain.SaveBotConfigVersionPayload) (result.Result[any], error) {
	r, err := jsonRequest(http.MethodPost, c.apiURL(nil, "config", botID), payload)
	if err != nil {
		return result.Result[any]{}, err
	}
	return fetchTrivial(ctx, c, r)
}

// DeleteBotConfig deletes a bot.
func (c *Client) DeleteBotConfig(ctx context.Context, botID string) (result.Result[any], error) {
	return fetchTrivial(ctx, c, request{method: http.MethodDelete, url: c.apiURL(nil, "config", botID)})
}

// StartBot starts a stored version of a bot.
func (c *Client) StartBot(ctx context.Context, botID string, version int) (result.Result[any], error) {
	r, err := jsonRequest(http.MethodPost, c.apiURL(nil, "start", botID), domain.StartBotPayload{Version: version})
	if err != nil {
		return result.Result[any]{}, err
	}
	return fetchTrivial(ctx, c, r)
}

// StopBot stops a running bot.
func (c *Client) StopBot(ctx context.Context, botID string) (result.Result[any], error) {
	return fetchTrivial(ctx, c, request{method: http.MethodPost, url: c.apiURL(nil, "stop", botID)})
}

// ListRunningBots returns the ids of running bots.
func (c *Client) ListRunningBots(ctx context.Context) (result.Result[[]string], error) {
	return fetchData[[]string](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "running")})
}

// GetBotInfo fetches the dashboard summary of a bot.
func (c *Client) GetBotInfo(ctx context.Context, botID string) (result.Result[domain.BotInfo], error) {
	return fetchData[domain.BotInfo](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "bots", "info", botID)})
}

// ListBotInfos fetches dashboard summaries of all bots, keyed by bot id.
func (c *Client) ListBotInfos(ctx context.Context) (result.Result[map[string]domain.BotInfo], error) {
	return fetchData[map[string]domain.BotInfo](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "bots", "info")})
}

// GetBotUser fetches the Telegram profile of a bot.
func (c *Client) GetBotUser(ctx context.Context, botID string) (result.Result[domain.TgBotUser], error) {
	return fetchData[domain.TgBotUser](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "bot-user", botID)})
}

// UpdateBotUser updates the Telegram profile of a bot.
func (c *Client) UpdateBotUser(ctx context.Context, botID string, update domain.TgBotUserUpdate) (result.Result[any], error) {
	r, err := jsonRequest(http.MethodPut, c.apiURL(nil, "bot-user", botID), update)
	if err != nil {
		return result.Result[any]{}, err
	}
	return fetchTrivial(ctx, c, r)
}

// LoggedInUser returns the identity the backend sees for this client.
func (c *Client) LoggedInUser(ctx context.Context) (result.Result[domain.LoggedInUser], error) {
	return fetchData[domain.LoggedInUser](ctx, c, request{method: http.MethodGet, url: c.apiURL(nil, "logged-in-user")})
}

// Ping checks that the backend answers and accepts this client.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.do(ctx, request{method: http.MethodGet, url: c.apiURL(nil, "logged-in-user")})
	if err != nil {
		return err
	}
	if !isSuccess(resp.status) {
		return &BackendError{Status: resp.status, Message: string(resp.body)}
	}
	return nil
}

// LoadFlow implements ports.FlowLoader over stored bot configs.
func (c *Client) LoadFlow(ctx context.Context, botID string) (*domain.UserFlowConfig, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, url: c.apiURL(nil, "config", botID)})
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotFound {
		return nil, fmt.Errorf("bot %s: %w", botID, domain.ErrFlowNotFound)
	}
	res, err := dataResult[domain.BotConfig](resp.status, resp.body)
	if err != nil {
		return nil, err
	}
	cfg, ok := res.Value()
	if !ok {
		return nil, &BackendError{Status: resp.status, Message: res.ErrorOr("")}
	}
	flow := cfg.UserFlowConfig
	if flow.Blocks == nil {
		flow.Blocks = []domain.BlockConfig{}
	}
	return &flow, nil
}

// BackendError is a non-2xx answer surfaced as a Go error, for callers outside the
// Result convention.
type BackendError struct {
	Status  int
	Message string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}
