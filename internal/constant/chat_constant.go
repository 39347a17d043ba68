package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Response types tell API clients how an answer was produced: straight
	// from the training store, from a canned small-talk reply, through the
	// full retrieval pipeline, or as a hard-failure fallback.
	ResponseTypeTrained   = "trained"
	ResponseTypeSmallTalk = "small_talk"
	ResponseTypeRag       = "rag"
	ResponseTypeError     = "error"
)
