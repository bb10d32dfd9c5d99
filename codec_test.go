package polystash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	Name string
	Age  int
	Tags []string
}

var codecs = []Codec{GobCodec{}, JSONCodec{}, MsgpackCodec{}}

func roundTrip[V any](t *testing.T, codec Codec, value V) {
	t.Helper()
	data, err := encodeValue(codec, value)
	require.NoError(t, err)
	got, err := decodeValue[V](codec, data)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestCodec_RoundTrip(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			roundTrip(t, codec, 1000)
			roundTrip(t, codec, int32(-7))
			roundTrip(t, codec, uint64(1<<40))
			roundTrip(t, codec, "hello world")
			roundTrip(t, codec, true)
			roundTrip(t, codec, false)
			roundTrip(t, codec, []byte("hello world"))
			roundTrip(t, codec, 3.5)
			roundTrip(t, codec, map[string]int{"a": 1, "b": 2})
			roundTrip(t, codec, profile{Name: "ann", Age: 41, Tags: []string{"x", "y"}})
		})
	}
}

func TestCodec_DecodeMismatch(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			data, err := encodeValue(codec, "not a number")
			require.NoError(t, err)

			_, err = decodeValue[int](codec, data)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)
			assert.NotErrorIs(t, err, ErrEncode)

			var codecErr *CodecError
			require.ErrorAs(t, err, &codecErr)
			assert.Equal(t, "int", codecErr.Type)
			assert.Equal(t, codec.Name(), codecErr.Codec)
		})
	}
}

func TestCodec_GobRejectsSignednessChange(t *testing.T) {
	data, err := encodeValue(GobCodec{}, 1000)
	require.NoError(t, err)

	_, err = decodeValue[uint32](GobCodec{}, data)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCodec_GobRejectsUnrelatedStruct(t *testing.T) {
	data, err := encodeValue(GobCodec{}, profile{Name: "ann"})
	require.NoError(t, err)

	_, err = decodeValue[int](GobCodec{}, data)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCodec_TruncatedPayload(t *testing.T) {
	data, err := encodeValue(GobCodec{}, profile{Name: "ann", Age: 41, Tags: []string{"x"}})
	require.NoError(t, err)

	_, err = decodeValue[profile](GobCodec{}, data[:len(data)/2])
	assert.ErrorIs(t, err, ErrDecode)
}

func TestCodec_EncodeFailure(t *testing.T) {
	for _, codec := range codecs {
		t.Run(codec.Name(), func(t *testing.T) {
			_, err := encodeValue(codec, make(chan int))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrEncode)
			assert.NotErrorIs(t, err, ErrDecode)
		})
	}
}
