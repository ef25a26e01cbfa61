package cache

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// Encode serialises v as zstd-compressed JSON
func Encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return zstdEncoder.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// Decode reverses Encode into v
func Decode(data []byte, v any) error {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return fmt.Errorf("failed to decompress cache value: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return nil
}
