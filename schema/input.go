package schema

// Input is a plain text user prompt which may carry attachements
type Input struct {
	Base
	// ChatMessage the user prompt
	ChatMessage string `json:"chat_message" jsonschema:"title=chat_message,description=The chat message sent by the user."`
}

// NewInput returns a new Input
func NewInput(msg string) *Input {
	return &Input{
		ChatMessage: msg,
	}
}

func (s Input) String() string {
	return s.ChatMessage
}
