package domain

// HumanOperatorBlock hands the user over to a human operator in an admin chat.
// It is terminal: the flow never continues past it.
type HumanOperatorBlock struct {
	BlockID               string                `json:"block_id"`
	CatchAll              bool                  `json:"catch_all"`
	FeedbackHandlerConfig FeedbackHandlerConfig `json:"feedback_handler_config"`
}

func (b *HumanOperatorBlock) ID() string                     { return b.BlockID }
func (b *HumanOperatorBlock) Kind() BlockKind                { return BlockHumanOperator }
func (b *HumanOperatorBlock) PossibleNextBlockIDs() []string { return []string{} }

type FeedbackHandlerConfig struct {
	AdminChatID          *int64          `json:"admin_chat_id"`
	ForumTopicPerUser    bool            `json:"forum_topic_per_user"`
	AnonymizeUsers       bool            `json:"anonimyze_users"`
	MaxMessagesPerMinute int             `json:"max_messages_per_minute"`
	MessagesToUser       MessagesToUser  `json:"messages_to_user"`
	MessagesToAdmin      MessagesToAdmin `json:"messages_to_admin"`
	HashtagsInAdminChat  bool            `json:"hashtags_in_admin_chat"`
	// UnansweredHashtag and HashtagMessageRarerThan are sent as-is to the backend.
	UnansweredHashtag       *string `json:"unanswered_hashtag"`
	HashtagMessageRarerThan *string `json:"hashtag_message_rarer_than"`
	MessageLogToAdminChat   bool    `json:"message_log_to_admin_chat"`
}

type MessagesToUser struct {
	ForwardedToAdminOK LocalizableText `json:"forwarded_to_admin_ok"`
	Throttling         LocalizableText `json:"throttling"`
}

// MessagesToAdmin are shown in the admin chat, which is never multilingual.
type MessagesToAdmin struct {
	CopiedToUserOK      string `json:"copied_to_user_ok"`
	DeletedMessageOK    string `json:"deleted_message_ok"`
	CanNotDeleteMessage string `json:"can_not_delete_message"`
}
