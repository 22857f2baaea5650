// Package kserde converts pipeline items to and from Kafka record bytes.
package kserde

import (
	"errors"
	"fmt"
)

var ErrSerde = errors.New("serde error")

type Serde[T any] struct {
	Serializer   Serializer[T]
	Deserializer Deserializer[T]
}

type Serializer[T any] func(T) ([]byte, error)

type Deserializer[T any] func([]byte) (T, error)

// Erase turns a typed serializer into one accepting pipeline items, which
// are untyped. Items of another type fail with ErrSerde.
func Erase[T any](s Serializer[T]) Serializer[any] {
	return func(item any) ([]byte, error) {
		v, ok := item.(T)
		if !ok {
			return nil, fmt.Errorf("%w: cannot serialize %T, want %T", ErrSerde, item, *new(T))
		}
		return s(v)
	}
}

// Lift turns a typed deserializer into one producing pipeline items.
func Lift[T any](d Deserializer[T]) Deserializer[any] {
	return func(b []byte) (any, error) {
		v, err := d(b)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}
