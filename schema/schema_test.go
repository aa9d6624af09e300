package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringify(t *testing.T) {
	type structured struct {
		Base
		Name string `json:"name"`
	}
	tests := []struct {
		name   string
		input  Schema
		expect string
	}{
		{name: "string", input: String("plain text"), expect: "plain text"},
		{name: "string pointer", input: NewString("pointer text"), expect: "pointer text"},
		{name: "input", input: NewInput("analyze this"), expect: "analyze this"},
		{name: "struct", input: structured{Name: "x"}, expect: `{"name":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, Stringify(tt.input))
		})
	}
}

func TestInputAttachement(t *testing.T) {
	input := NewInput("describe")
	assert.Nil(t, input.Attachement())
	assert.False(t, input.Attachement().HasImages())
	input.SetAttachement(&Attachement{
		Images: []Image{{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}},
	})
	assert.True(t, input.Attachement().HasImages())
	assert.Equal(t, "image/png", input.Attachement().Images[0].MimeType)
}

func TestStringUnmarshal(t *testing.T) {
	var s String
	var u Unmarshaler = &s
	assert.NoError(t, u.Unmarshal([]byte("model answer")))
	assert.Equal(t, "model answer", s.String())
}
