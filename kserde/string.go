package kserde

// String stores text as raw UTF-8 bytes. A nil record value decodes to "".
var String = Serde[string]{
	Serializer: func(s string) ([]byte, error) {
		return []byte(s), nil
	},
	Deserializer: func(b []byte) (string, error) {
		return string(b), nil
	},
}

// Bytes passes record values through unchanged.
var Bytes = Serde[[]byte]{
	Serializer: func(b []byte) ([]byte, error) {
		return b, nil
	},
	Deserializer: func(b []byte) ([]byte, error) {
		return b, nil
	},
}
