package schema

import "encoding/json"

// Schema is message schema interface
type Schema interface {
	// Attachement() returns schema attchement
	Attachement() *Attachement
}

type SchemaPointer interface {
	Schema
	SetAttachement(*Attachement)
}

// Unmarshaler is implemented by schemas which decode themselves from raw model text
type Unmarshaler interface {
	Unmarshal([]byte) error
}

func Stringify(s Schema) string {
	switch v := s.(type) {
	case String:
		return string(v)
	case *String:
		return string(*v)
	case Input:
		return v.ChatMessage
	case *Input:
		return v.ChatMessage
	}
	bs, _ := json.Marshal(s)
	return string(bs)
}

func ToBytes(s Schema) []byte {
	return []byte(Stringify(s))
}
