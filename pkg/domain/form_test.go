package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textField(id string) FormFieldConfig {
	return NewFormField(&PlainTextFormField{ID: id, Name: id, Prompt: Text(id)})
}

func fieldIDs(fields []FormFieldConfig) []string {
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		ids = append(ids, f.Concrete().FieldID())
	}
	return ids
}

func TestFlattenedFormFields(t *testing.T) {
	members := []BranchingFormMemberConfig{
		FieldMember(textField("A")),
		BranchMember(FormBranchConfig{Members: []BranchingFormMemberConfig{
			FieldMember(textField("B")),
			BranchMember(FormBranchConfig{Members: []BranchingFormMemberConfig{
				FieldMember(textField("C")),
			}}),
		}}),
		FieldMember(textField("D")),
	}

	flat := FlattenedFormFields(members)
	assert.Equal(t, []string{"A", "B", "C", "D"}, fieldIDs(flat))

	again := make([]BranchingFormMemberConfig, 0, len(flat))
	for _, f := range flat {
		again = append(again, FieldMember(f))
	}
	assert.Equal(t, fieldIDs(flat), fieldIDs(FlattenedFormFields(again)))
}

func TestFlattenedFormFields_Empty(t *testing.T) {
	flat := FlattenedFormFields(nil)
	assert.NotNil(t, flat)
	assert.Empty(t, flat)
}

func TestFormResultsExport_IsAnonymous(t *testing.T) {
	cases := []struct {
		in   string
		want FormResultUserAttribution
	}{
		{`{"echo_to_user":true,"to_chat":null,"to_store":false,"is_anonymous":true}`, AttributionNone},
		{`{"echo_to_user":true,"to_chat":null,"to_store":false,"is_anonymous":false}`, AttributionFull},
		{`{"user_attribution":"name","echo_to_user":true,"to_chat":null}`, AttributionName},
		{`{"echo_to_user":false}`, AttributionNone},
	}
	for _, tc := range cases {
		var export FormResultsExport
		require.NoError(t, json.Unmarshal([]byte(tc.in), &export), tc.in)
		assert.Equal(t, tc.want, export.UserAttribution, tc.in)
	}
}

func TestFormBlock_Decode(t *testing.T) {
	in := `{"form":{
		"block_id":"form-1",
		"form_name":"survey",
		"members":[
			{"field":{"single_select":{"id":"color","name":"color","prompt":"Pick","is_required":true,"result_formatting":"auto",
				"options":[{"id":"r","label":"Red"}],"invalid_enum_error_msg":"no"}}},
			{"branch":{"condition_match_value":"r","members":[
				{"field":{"plain_text":{"id":"why","name":"why","prompt":"Why?","is_required":false,
					"result_formatting":{"descr":"Reason"},"is_long_text":true,"empty_text_error_msg":"empty"}}}
			]}}
		],
		"messages":{"form_start":"","cancel_command_is":"","field_is_skippable":"","field_is_not_skippable":"","please_enter_correct_value":"","unsupported_command":""},
		"results_export":{"user_attribution":"unique_id","echo_to_user":true,"to_chat":{"chat_id":-100123,"via_feedback_handler":true},"to_store":true},
		"form_completed_next_block_id":"done",
		"form_cancelled_next_block_id":null
	}}`

	var cfg BlockConfig
	require.NoError(t, json.Unmarshal([]byte(in), &cfg))
	form := cfg.Form()
	require.NotNil(t, form)

	assert.Equal(t, []string{"done"}, form.PossibleNextBlockIDs())
	assert.Equal(t, []string{"color", "why"}, fieldIDs(FlattenedFormFields(form.Members)))

	sel := form.Members[0].Field().SingleSelect()
	require.NotNil(t, sel)
	require.NotNil(t, sel.ResultFormatting)
	assert.True(t, sel.ResultFormatting.Auto)

	branch := form.Members[1].Branch()
	require.NotNil(t, branch)
	assert.Equal(t, "r", *branch.ConditionMatchValue)
	why := branch.Members[0].Field().PlainText()
	require.NotNil(t, why)
	assert.Equal(t, "Reason", why.ResultFormatting.Opts.Descr.Plain())

	require.NotNil(t, form.ResultsExport.ToChat)
	assert.Equal(t, ChatID("-100123"), form.ResultsExport.ToChat.ChatID)

	out, err := json.Marshal(form.ResultsExport.ToChat)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chat_id":-100123,"via_feedback_handler":true}`, string(out))
}

func TestBranchingFormMember_StrictDecoding(t *testing.T) {
	var m BranchingFormMemberConfig
	err := json.Unmarshal([]byte(`{"field":null,"branch":null}`), &m)
	var variantErr *VariantError
	assert.ErrorAs(t, err, &variantErr)

	_, err = json.Marshal(BranchingFormMemberConfig{})
	assert.Error(t, err)
}
