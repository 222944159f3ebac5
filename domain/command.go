package domain

// SendMessageCommand is the agent facing request to post in a room.
// An empty Room targets the default room.
type SendMessageCommand struct {
	Room    string `json:"room" validate:"max=256"`
	Content string `json:"content" validate:"required"`
}

// ReadMessagesCommand asks for the most recent messages of a room.
type ReadMessagesCommand struct {
	Room  string `json:"room" validate:"max=256"`
	Limit int    `json:"limit" validate:"gte=1,lte=100"`
}
