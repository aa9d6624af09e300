package components

import (
	"sync"

	"github.com/bububa/medagent/schema"
)

// Memory holds the chat history of one agent run.
// threadsafe
type Memory struct {
	//	history is a list of messages representing the chat history.
	history []Message
	//	turnID is the ID of the current turn.
	turnID string
	mtx    sync.RWMutex
}

// NewMemory initializes the Memory with an empty history
func NewMemory() *Memory {
	return &Memory{
		history: make([]Message, 0, 4),
	}
}

// TurnID returns the current turn ID
func (m *Memory) TurnID() string {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	return m.turnID
}

// NewTurn initializes a new turn by generating a random turn ID.
func (m *Memory) NewTurn() *Memory {
	m.mtx.Lock()
	m.turnID = NewTurnID()
	m.mtx.Unlock()
	return m
}

// NewMessage adds a message to the chat history.
func (m *Memory) NewMessage(role MessageRole, content schema.Schema) *Message {
	return m.Append(NewMessage(role, content))
}

// Append adds an existing message to the chat history within the current turn
func (m *Memory) Append(msg *Message) *Message {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	msg.SetTurnID(m.turnID)
	m.history = append(m.history, *msg)
	return msg
}

// History returns a copy of the chat history.
func (m *Memory) History() []Message {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	ret := make([]Message, len(m.history))
	copy(ret, m.history)
	return ret
}
