package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFlow = `{
	"entrypoints": [
		{"command": {"entrypoint_id": "command-start", "command": "start", "next_block_id": "lang", "scope": "private", "short_description": null}}
	],
	"blocks": [
		{"language_select": {"block_id": "lang", "menu_config": {"propmt": {"en": "Language?"}, "is_blocking": false, "emoji_buttons": true},
			"supported_languages": ["en", "ru"], "default_language": "en", "language_selected_next_block_id": "menu"}},
		{"menu": {"block_id": "menu", "menu": {"text": {"en": "Hi", "ru": "Привет"}, "items": [], "config": {"mechanism": "inline_buttons", "back_label": null, "lock_after_termination": false}}}},
		{"human_operator": {"block_id": "ho", "catch_all": false, "feedback_handler_config": {"admin_chat_id": null, "anonimyze_users": true, "max_messages_per_minute": 10,
			"messages_to_user": {"forwarded_to_admin_ok": "", "throttling": ""}, "messages_to_admin": {"copied_to_user_ok": "", "deleted_message_ok": "", "can_not_delete_message": ""}}}}
	],
	"node_display_coords": {"command-start": {"x": 0, "y": 0}, "lang": {"x": 10.5, "y": -20}}
}`

func TestUserFlowConfig_Lookups(t *testing.T) {
	var flow UserFlowConfig
	require.NoError(t, json.Unmarshal([]byte(sampleFlow), &flow))

	assert.True(t, flow.IsMultilingual())
	assert.Equal(t, []string{"en", "ru"}, flow.LanguageSelectBlock().SupportedLanguages)
	assert.Equal(t, "Language?", flow.LanguageSelectBlock().MenuConfig.Prompt["en"])
	assert.Len(t, flow.MenuBlocks(), 1)
	assert.Equal(t, NodePosition{X: 10.5, Y: -20}, flow.NodeDisplayCoords["lang"])

	next, err := flow.NextBlockIDs("lang")
	require.NoError(t, err)
	assert.Equal(t, []string{"menu"}, next)

	ho, err := flow.BlockByID("ho")
	require.NoError(t, err)
	assert.True(t, ho.(*HumanOperatorBlock).FeedbackHandlerConfig.AnonymizeUsers)

	_, err = flow.BlockByID("ghost")
	assert.ErrorIs(t, err, ErrBlockNotFound)

	ep := flow.EntrypointByID("command-start")
	require.NotNil(t, ep)
	assert.Equal(t, "lang", *ep.NextBlock())
	assert.Nil(t, flow.EntrypointByID("nope"))
}

func TestNewUserFlowConfig_Empty(t *testing.T) {
	flow := NewUserFlowConfig()
	assert.False(t, flow.IsMultilingual())
	assert.Nil(t, flow.MenuBlocks())

	out, err := json.Marshal(flow)
	require.NoError(t, err)
	assert.JSONEq(t, `{"entrypoints":[],"blocks":[],"node_display_coords":{}}`, string(out))
}
