package dto

// PubSubPushRequest is the body Pub/Sub sends to a push endpoint.
type PubSubPushRequest struct {
	Message      PubSubMessage `json:"message" validate:"required"`
	Subscription string        `json:"subscription"`
}

// PubSubMessage is the actual message from Pub/Sub.
type PubSubMessage struct {
	Data       string            `json:"data"` // Base64-encoded
	MessageID  string            `json:"messageId" validate:"required"`
	Attributes map[string]string `json:"attributes"`
}
