package kserde

import (
	"encoding/binary"
	"fmt"
)

// Int64Serializer writes big-endian bytes.
var Int64Serializer = func(data int64) ([]byte, error) {
	return binary.BigEndian.AppendUint64(nil, uint64(data)), nil
}

var Int64Deserializer = func(data []byte) (int64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("%w: int64 needs exactly 8 bytes, got %d", ErrSerde, len(data))
	}
	return int64(binary.BigEndian.Uint64(data)), nil
}

var Int64 = Serde[int64]{
	Serializer:   Int64Serializer,
	Deserializer: Int64Deserializer,
}
