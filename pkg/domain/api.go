package domain

import "encoding/json"

// BotConfig is a stored bot version.
type BotConfig struct {
	TokenSecretName string         `json:"token_secret_name"`
	UserFlowConfig  UserFlowConfig `json:"user_flow_config"`
	DisplayName     string         `json:"display_name,omitempty"`
}

type SaveBotConfigVersionPayload struct {
	Config         BotConfig `json:"config"`
	VersionMessage *string   `json:"version_message"`
	Start          bool      `json:"start"`
	DisplayName    *string   `json:"display_name,omitempty"`
}

type StartBotPayload struct {
	Version int `json:"version"`
}

// LanguageData describes a language the platform knows about.
type LanguageData struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	LocalName *string `json:"local_name,omitempty"`
	Emoji     *string `json:"emoji,omitempty"`
}

// BotTokenValidationResult is returned for a valid token.
type BotTokenValidationResult struct {
	Name     string  `json:"name"`
	Username string  `json:"username"`
	Userpic  *string `json:"userpic"`
}

// PrefilledMessages maps message keys to per-language texts.
type PrefilledMessages map[string]map[string]string

// AuthType is the backend's authentication mode.
type AuthType string

const (
	AuthNone        AuthType = "no_auth"
	AuthTgGroupAuth AuthType = "tg_group_auth"
	AuthTg          AuthType = "tg_auth"
)

type LoggedInUser struct {
	AuthType        AuthType `json:"auth_type"`
	Username        string   `json:"username"`
	Name            string   `json:"name"`
	DisplayUsername *string  `json:"display_username,omitempty"`
	Userpic         *string  `json:"userpic,omitempty"`
}

// BotInfo summarizes a bot for the dashboard. Events and errors are passed through raw.
type BotInfo struct {
	BotID              string            `json:"bot_id"`
	DisplayName        string            `json:"display_name"`
	RunningVersion     *int              `json:"running_version"`
	LastVersions       []BotVersionInfo  `json:"last_versions"`
	LastEvents         []json.RawMessage `json:"last_events"`
	FormsWithResponses []FormInfoBasic   `json:"forms_with_responses"`
	LastErrors         []json.RawMessage `json:"last_errors"`
}

type BotVersionInfo struct {
	Version  int                      `json:"version"`
	Metadata BotConfigVersionMetadata `json:"metadata"`
}

type BotConfigVersionMetadata struct {
	Timestamp *float64 `json:"timestamp,omitempty"`
	Message   *string  `json:"message"`
}

type FormInfoBasic struct {
	FormBlockID string  `json:"form_block_id"`
	Prompt      string  `json:"prompt"`
	Title       *string `json:"title"`
}

// TgBotUser is the Telegram-side profile of a bot.
type TgBotUser struct {
	ID                      int64        `json:"id"`
	Username                string       `json:"username"`
	Name                    string       `json:"name"`
	Description             string       `json:"description"`
	ShortDescription        string       `json:"short_description"`
	CanJoinGroups           bool         `json:"can_join_groups"`
	CanReadAllGroupMessages bool         `json:"can_read_all_group_messages"`
	Commands                []BotCommand `json:"commands"`
	Userpic                 *string      `json:"userpic"`
}

type BotCommand struct {
	Command     string `json:"command"`
	Description string `json:"description"`
}

type TgBotUserUpdate struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ShortDescription string `json:"short_description"`
}
