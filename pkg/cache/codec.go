package cache

import (
	"errors"

	jsoniter "github.com/json-iterator/go"
)

// Codec converts values to and from their stored byte form.
type Codec[V any] interface {
	Marshal(v V) ([]byte, error)
	Unmarshal(data []byte) (V, error)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONCodec encodes values as JSON.
type JSONCodec[V any] struct{}

func (JSONCodec[V]) Marshal(v V) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Join(ErrCodec, err)
	}
	return data, nil
}

func (JSONCodec[V]) Unmarshal(data []byte) (V, error) {
	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		var zero V
		return zero, errors.Join(ErrCodec, err)
	}
	return v, nil
}
