package iocache

import (
	"encoding/json"
	"fmt"

	"github.com/cpheatmap/cpheatmap/schema"
	"github.com/pierrec/lz4/v4"
)

// cacheVersion changes whenever the encoded payload changes shape. Older rows are misses.
const cacheVersion = 1

// encodeRecords serializes records to JSON and compresses the result with LZ4.
// rawSize is the uncompressed length, needed again to size the decode buffer.
func encodeRecords(records schema.RecordSet) (payload []byte, rawSize int, err error) {
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encode records: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(raw)))
	written, err := lz4.CompressBlock(raw, compressed, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to compress records: %w", err)
	}
	if written == 0 {
		// Incompressible input; store it as is and mark it with a negative size.
		return raw, -len(raw), nil
	}
	return compressed[:written], len(raw), nil
}

// decodeRecords reverses encodeRecords.
func decodeRecords(payload []byte, rawSize int) (schema.RecordSet, error) {
	raw := payload
	if rawSize > 0 {
		raw = make([]byte, rawSize)
		n, err := lz4.UncompressBlock(payload, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
		}
		raw = raw[:n]
	}

	var records schema.RecordSet
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCache, err)
	}
	return records, nil
}
