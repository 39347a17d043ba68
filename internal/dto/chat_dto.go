package dto

// ChatMessageDTO is one turn of the conversation as sent by the client.
type ChatMessageDTO struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required"`
}

// ChatRequest carries the conversation. The latest user message is the
// question; earlier messages seed the history for new conversations.
type ChatRequest struct {
	ConversationId string           `json:"conversation_id,omitempty"`
	Messages       []ChatMessageDTO `json:"messages" validate:"required,min=1,dive"`
}

type ChatSourceDTO struct {
	Source      string   `json:"source"`
	Filename    string   `json:"filename"`
	Similarity  float64  `json:"similarity"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
	Preview     string   `json:"preview"`
}

type ChatFeaturesDTO struct {
	QueryExpansion bool   `json:"query_expansion"`
	Reranking      bool   `json:"reranking"`
	DomainRelevant bool   `json:"domain_relevant"`
	UsedFallback   bool   `json:"used_fallback"`
	ResponseTime   string `json:"response_time"`
	Confidence     string `json:"confidence"`
	Reason         string `json:"reason,omitempty"`
}

type ChatResponse struct {
	ConversationId string          `json:"conversation_id"`
	ResponseType   string          `json:"response_type"`
	Question       string          `json:"question"`
	Answer         string          `json:"answer"`
	Sources        []ChatSourceDTO `json:"sources"`
	TotalSources   int             `json:"total_sources"`
	Features       ChatFeaturesDTO `json:"enhanced_features"`
	Cached         bool            `json:"cached,omitempty"`
}
