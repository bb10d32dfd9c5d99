package polystash

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec turns values into opaque payloads and back. Unmarshal must fail,
// not coerce, when the payload does not describe a value of v's type.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// GobCodec is the default codec. Integers keep their signedness on the wire,
// so reading a signed value as unsigned fails rather than reinterpreting it.
type GobCodec struct{}

func (GobCodec) Name() string { return "gob" }

func (GobCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (GobCodec) Unmarshal(data []byte, v any) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

type JSONCodec struct{}

func (JSONCodec) Name() string                       { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

type MsgpackCodec struct{}

func (MsgpackCodec) Name() string                       { return "msgpack" }
func (MsgpackCodec) Marshal(v any) ([]byte, error)      { return msgpack.Marshal(v) }
func (MsgpackCodec) Unmarshal(data []byte, v any) error { return msgpack.Unmarshal(data, v) }

const (
	opEncode = "encode"
	opDecode = "decode"
)

// CodecError reports a value that could not be encoded, or a payload that
// could not be decoded into the requested type. It matches ErrEncode or
// ErrDecode under errors.Is.
type CodecError struct {
	Op    string
	Type  string
	Codec string
	Err   error
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("%s %s with %s: %v", e.Op, e.Type, e.Codec, e.Err)
}

func (e *CodecError) Unwrap() error { return e.Err }

func (e *CodecError) Is(target error) bool {
	switch target {
	case ErrEncode:
		return e.Op == opEncode
	case ErrDecode:
		return e.Op == opDecode
	}
	return false
}

func encodeValue[V any](codec Codec, value V) ([]byte, error) {
	data, err := codec.Marshal(value)
	if err != nil {
		return nil, &CodecError{Op: opEncode, Type: typeName[V](), Codec: codec.Name(), Err: err}
	}
	return data, nil
}

func decodeValue[V any](codec Codec, data []byte) (V, error) {
	var v V
	if err := codec.Unmarshal(data, &v); err != nil {
		var zero V
		return zero, &CodecError{Op: opDecode, Type: typeName[V](), Codec: codec.Name(), Err: err}
	}
	return v, nil
}

func typeName[V any]() string {
	return reflect.TypeFor[V]().String()
}
