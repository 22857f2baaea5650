package kserde

import (
	"encoding/json"
	"fmt"
)

// JSON encodes values of T as JSON documents. Errors name the Go type so a
// bad record can be traced to the item kind that failed.
func JSON[T any]() Serde[T] {
	return Serde[T]{
		Serializer: func(v T) ([]byte, error) {
			out, err := json.Marshal(v)
			if err != nil {
				return nil, fmt.Errorf("%w: encode %T as json: %v", ErrSerde, v, err)
			}
			return out, nil
		},
		Deserializer: func(data []byte) (T, error) {
			var v T
			if err := json.Unmarshal(data, &v); err != nil {
				var zero T
				return zero, fmt.Errorf("%w: decode json into %T: %v", ErrSerde, v, err)
			}
			return v, nil
		},
	}
}
