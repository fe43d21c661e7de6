package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FormBlock asks the user a series of questions and exports the answers.
type FormBlock struct {
	BlockID                  string                      `json:"block_id"`
	FormName                 string                      `json:"form_name"`
	Members                  []BranchingFormMemberConfig `json:"members"`
	Messages                 FormMessages                `json:"messages"`
	ResultsExport            FormResultsExport           `json:"results_export"`
	FormCompletedNextBlockID *string                     `json:"form_completed_next_block_id"`
	FormCancelledNextBlockID *string                     `json:"form_cancelled_next_block_id"`
}

func (b *FormBlock) ID() string      { return b.BlockID }
func (b *FormBlock) Kind() BlockKind { return BlockForm }

func (b *FormBlock) PossibleNextBlockIDs() []string {
	return nextIDs(b.FormCancelledNextBlockID, b.FormCompletedNextBlockID)
}

func (b *FormBlock) checkDepth() error {
	if d := membersDepth(b.Members); d > MaxNestingDepth {
		return fmt.Errorf("form block %q: depth %d: %w", b.BlockID, d, ErrNestingTooDeep)
	}
	return nil
}

func membersDepth(members []BranchingFormMemberConfig) int {
	deepest := 0
	for _, m := range members {
		if m.branch != nil {
			deepest = max(deepest, membersDepth(m.branch.Members))
		}
	}
	return deepest + 1
}

// FlattenedFormFields returns every field of a form tree, depth-first in encounter
// order, with branch contents inlined where the branch appears.
func FlattenedFormFields(members []BranchingFormMemberConfig) []FormFieldConfig {
	fields := make([]FormFieldConfig, 0, len(members))
	for _, m := range members {
		switch {
		case m.field != nil:
			fields = append(fields, *m.field)
		case m.branch != nil:
			fields = append(fields, FlattenedFormFields(m.branch.Members)...)
		}
	}
	return fields
}

var memberVariants = []string{"field", "branch"}

// BranchingFormMemberConfig is either a field or a conditional branch of further members.
type BranchingFormMemberConfig struct {
	field  *FormFieldConfig
	branch *FormBranchConfig
}

// FieldMember wraps a field as a form member.
func FieldMember(f FormFieldConfig) BranchingFormMemberConfig {
	return BranchingFormMemberConfig{field: &f}
}

// BranchMember wraps a branch as a form member.
func BranchMember(b FormBranchConfig) BranchingFormMemberConfig {
	return BranchingFormMemberConfig{branch: &b}
}

// Field returns the field variant, or nil.
func (m BranchingFormMemberConfig) Field() *FormFieldConfig { return m.field }

// Branch returns the branch variant, or nil.
func (m BranchingFormMemberConfig) Branch() *FormBranchConfig { return m.branch }

func (m BranchingFormMemberConfig) MarshalJSON() ([]byte, error) {
	switch {
	case m.field != nil:
		return marshalVariant("field", m.field)
	case m.branch != nil:
		return marshalVariant("branch", m.branch)
	}
	return nil, &EmptyUnionError{Union: "BranchingFormMemberConfig", Value: m}
}

func (m *BranchingFormMemberConfig) UnmarshalJSON(data []byte) error {
	key, raw, err := pickVariant("BranchingFormMemberConfig", data, memberVariants)
	if err != nil {
		return err
	}
	if key == "field" {
		var f FormFieldConfig
		if err := json.Unmarshal(raw, &f); err != nil {
			return err
		}
		*m = BranchingFormMemberConfig{field: &f}
		return nil
	}
	var b FormBranchConfig
	if err := json.Unmarshal(raw, &b); err != nil {
		return err
	}
	*m = BranchingFormMemberConfig{branch: &b}
	return nil
}

// FormBranchConfig groups members asked only when the preceding single select field's
// answer equals ConditionMatchValue.
type FormBranchConfig struct {
	Members             []BranchingFormMemberConfig `json:"members"`
	ConditionMatchValue *string                     `json:"condition_match_value,omitempty"`
}

// FieldKind is the wire key of a form field variant.
type FieldKind string

const (
	FieldPlainText    FieldKind = "plain_text"
	FieldSingleSelect FieldKind = "single_select"
)

var fieldVariants = []string{string(FieldPlainText), string(FieldSingleSelect)}

// ConcreteFormField is implemented by every form field variant.
type ConcreteFormField interface {
	FieldID() string
	FieldName() string
	Kind() FieldKind
}

// FormFieldConfig is the tagged union over form field variants.
type FormFieldConfig struct {
	concrete ConcreteFormField
}

// NewFormField wraps a concrete field. A nil variant yields an empty union.
func NewFormField(f ConcreteFormField) FormFieldConfig {
	if isNilVariant(f) {
		return FormFieldConfig{}
	}
	return FormFieldConfig{concrete: f}
}

// Concrete returns the populated variant, or nil.
func (c FormFieldConfig) Concrete() ConcreteFormField { return c.concrete }

// PlainText returns the plain text variant, or nil.
func (c FormFieldConfig) PlainText() *PlainTextFormField {
	f, _ := c.concrete.(*PlainTextFormField)
	return f
}

// SingleSelect returns the single select variant, or nil.
func (c FormFieldConfig) SingleSelect() *SingleSelectFormField {
	f, _ := c.concrete.(*SingleSelectFormField)
	return f
}

func (c FormFieldConfig) MarshalJSON() ([]byte, error) {
	if c.concrete == nil {
		return nil, &EmptyUnionError{Union: "FormFieldConfig", Value: c}
	}
	return marshalVariant(string(c.concrete.Kind()), c.concrete)
}

func (c *FormFieldConfig) UnmarshalJSON(data []byte) error {
	key, raw, err := pickVariant("FormFieldConfig", data, fieldVariants)
	if err != nil {
		return err
	}
	var concrete ConcreteFormField
	switch FieldKind(key) {
	case FieldPlainText:
		concrete = &PlainTextFormField{}
	case FieldSingleSelect:
		concrete = &SingleSelectFormField{}
	}
	if err := json.Unmarshal(raw, concrete); err != nil {
		return fmt.Errorf("%s field: %w", key, err)
	}
	c.concrete = concrete
	return nil
}

type PlainTextFormField struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Prompt            LocalizableText   `json:"prompt"`
	IsRequired        bool              `json:"is_required"`
	ResultFormatting  *ResultFormatting `json:"result_formatting"`
	IsLongText        bool              `json:"is_long_text"`
	EmptyTextErrorMsg LocalizableText   `json:"empty_text_error_msg"`
}

func (f *PlainTextFormField) FieldID() string   { return f.ID }
func (f *PlainTextFormField) FieldName() string { return f.Name }
func (f *PlainTextFormField) Kind() FieldKind   { return FieldPlainText }

type SingleSelectFormField struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Prompt              LocalizableText   `json:"prompt"`
	IsRequired          bool              `json:"is_required"`
	ResultFormatting    *ResultFormatting `json:"result_formatting"`
	Options             []EnumOption      `json:"options"`
	InvalidEnumErrorMsg LocalizableText   `json:"invalid_enum_error_msg"`
}

func (f *SingleSelectFormField) FieldID() string   { return f.ID }
func (f *SingleSelectFormField) FieldName() string { return f.Name }
func (f *SingleSelectFormField) Kind() FieldKind   { return FieldSingleSelect }

type EnumOption struct {
	ID    string          `json:"id"`
	Label LocalizableText `json:"label"`
}

// ResultFormatting is either "auto" or explicit options. A nil *ResultFormatting is null.
type ResultFormatting struct {
	Auto bool
	Opts FormFieldResultFormattingOpts
}

type FormFieldResultFormattingOpts struct {
	Descr       LocalizableText `json:"descr"`
	IsMultiline bool            `json:"is_multiline,omitempty"`
}

func (r ResultFormatting) MarshalJSON() ([]byte, error) {
	if r.Auto {
		return []byte(`"auto"`), nil
	}
	return json.Marshal(r.Opts)
}

func (r *ResultFormatting) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte(`"auto"`)) {
		*r = ResultFormatting{Auto: true}
		return nil
	}
	var opts FormFieldResultFormattingOpts
	if err := json.Unmarshal(data, &opts); err != nil {
		return fmt.Errorf("result formatting: %w", err)
	}
	*r = ResultFormatting{Opts: opts}
	return nil
}

type FormMessages struct {
	FormStart               LocalizableText `json:"form_start"`
	CancelCommandIs         LocalizableText `json:"cancel_command_is"`
	FieldIsSkippable        LocalizableText `json:"field_is_skippable"`
	FieldIsNotSkippable     LocalizableText `json:"field_is_not_skippable"`
	PleaseEnterCorrectValue LocalizableText `json:"please_enter_correct_value"`
	UnsupportedCommand      LocalizableText `json:"unsupported_command"`
}

// FormResultUserAttribution controls how much user data is attached to form results.
type FormResultUserAttribution string

const (
	AttributionNone     FormResultUserAttribution = "none"
	AttributionUniqueID FormResultUserAttribution = "unique_id"
	AttributionName     FormResultUserAttribution = "name"
	AttributionFull     FormResultUserAttribution = "full"
)

type FormResultsExport struct {
	UserAttribution FormResultUserAttribution      `json:"user_attribution"`
	EchoToUser      bool                           `json:"echo_to_user"`
	ToChat          *FormResultsExportToChatConfig `json:"to_chat"`
	ToStore         bool                           `json:"to_store"`
}

// UnmarshalJSON accepts the deprecated is_anonymous flag and converts it into an attribution.
func (e *FormResultsExport) UnmarshalJSON(data []byte) error {
	type plain FormResultsExport
	var aux struct {
		plain
		IsAnonymous *bool `json:"is_anonymous"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = FormResultsExport(aux.plain)
	switch {
	case aux.IsAnonymous != nil && *aux.IsAnonymous:
		e.UserAttribution = AttributionNone
	case aux.IsAnonymous != nil:
		e.UserAttribution = AttributionFull
	case e.UserAttribution == "":
		e.UserAttribution = AttributionNone
	}
	return nil
}

type FormResultsExportToChatConfig struct {
	ChatID             ChatID `json:"chat_id"`
	ViaFeedbackHandler bool   `json:"via_feedback_handler"`
}

// ChatID is a Telegram chat id: numeric, or an @username string.
type ChatID string

func (c ChatID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(c), 10, 64); err == nil {
		return json.Marshal(n)
	}
	return json.Marshal(string(c))
}

func (c *ChatID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*c = ChatID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("chat id: expected number or string: %w", err)
	}
	*c = ChatID(s)
	return nil
}
