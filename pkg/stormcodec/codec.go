// Package stormcodec provides the codecs used to store documents in a storm database.
package stormcodec

import (
	"bytes"
	"strings"

	"github.com/asdine/storm/v3/codec"
	"github.com/asdine/storm/v3/codec/json"
	"github.com/asdine/storm/v3/codec/msgpack"
	"github.com/pkg/errors"
	ugorji "github.com/ugorji/go/codec"
)

// Default is the codec used when none is configured.
const Default = "msgpack"

var (
	// CBOR encodes to and decodes from CBOR (Concise Binary Object Representation).
	// https://tools.ietf.org/html/rfc7049
	CBOR codec.MarshalUnmarshaler = &ugorjiCodec{name: "cbor", handle: &ugorji.CborHandle{}}
	// Binc encodes to and decodes from Binc.
	// See https://github.com/ugorji/binc
	Binc codec.MarshalUnmarshaler = &ugorjiCodec{name: "binc", handle: &ugorji.BincHandle{}}
)

// ByName returns the codec registered under the given name.
// An empty name selects the Default codec.
func ByName(name string) (codec.MarshalUnmarshaler, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Default:
		return msgpack.Codec, nil
	case "json":
		return json.Codec, nil
	case "cbor":
		return CBOR, nil
	case "binc":
		return Binc, nil
	}
	return nil, errors.Errorf("unknown storm codec: %s", name)
}

type ugorjiCodec struct {
	name   string
	handle ugorji.Handle
}

func (c *ugorjiCodec) Marshal(v any) ([]byte, error) {
	var b bytes.Buffer
	if err := ugorji.NewEncoder(&b, c.handle).Encode(v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func (c *ugorjiCodec) Unmarshal(b []byte, v any) error {
	return ugorji.NewDecoder(bytes.NewReader(b), c.handle).Decode(v)
}

func (c *ugorjiCodec) Name() string {
	return c.name
}
