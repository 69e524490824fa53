package compression

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrEmptyMessage is returned when decoding a zero-length payload
var ErrEmptyMessage = errors.New("empty message")

// Codec turns values into queue payloads: JSON, compressed, with a one-byte
// header naming the algorithm. Decode reads the header, so a consumer can
// accept payloads written with any supported algorithm.
type Codec struct {
	compressor Compressor
}

// NewCodec creates a codec that compresses outgoing payloads with algo
func NewCodec(algo Algorithm) (*Codec, error) {
	c, err := GetCompressor(algo)
	if err != nil {
		return nil, err
	}
	return &Codec{compressor: c}, nil
}

// DefaultCodec returns a Snappy codec
func DefaultCodec() *Codec {
	return &Codec{compressor: NewSnappyCompressor()}
}

// Algorithm returns the algorithm used by Encode
func (c *Codec) Algorithm() Algorithm {
	return c.compressor.Algorithm()
}

// Encode marshals v and compresses the result
func (c *Codec) Encode(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal message: %w", err)
	}

	body, err := c.compressor.Compress(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to compress message: %w", err)
	}

	out := make([]byte, 0, len(body)+1)
	out = append(out, byte(c.compressor.Algorithm()))
	return append(out, body...), nil
}

// Decode decompresses data according to its header and unmarshals into v
func (c *Codec) Decode(data []byte, v interface{}) error {
	if len(data) == 0 {
		return ErrEmptyMessage
	}

	decompressor, err := GetCompressor(Algorithm(data[0]))
	if err != nil {
		return err
	}

	raw, err := decompressor.Decompress(data[1:])
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return nil
}
