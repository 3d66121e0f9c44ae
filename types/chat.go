package types

const (
	TypeWebsocketPing  = "ping"
	TypeWebsocketPong  = "pong"
	TypeWebsocketChat  = "chat"
	TypeWebsocketError = "error"
)

// Message represents a single message in a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type WebsocketRequest struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type WebsocketResponse struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WebsocketChatPayload is one turn of a retrieval chat. The namespace and
// filter apply to the retrieval step backing this turn.
type WebsocketChatPayload struct {
	Question  string          `json:"question"`
	Namespace string          `json:"namespace,omitempty"`
	TopK      int             `json:"top_k,omitempty"`
	Filter    *MetadataFilter `json:"filter,omitempty"`
}

type WebsocketChatResponse struct {
	Answer  string         `json:"answer"`
	Sources []SearchResult `json:"sources,omitempty"`
}
