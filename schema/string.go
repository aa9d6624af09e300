package schema

type String string

func NewString(v string) *String {
	s := String(v)
	return &s
}

func (s String) Attachement() *Attachement {
	return nil
}

func (s String) String() string {
	return string(s)
}

func (s *String) Unmarshal(bs []byte) error {
	*s = String(bs)
	return nil
}
