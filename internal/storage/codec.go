package storage

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/leg100/rawlink/internal/item"
)

// record is the binary encoding of an item. Content is zstd-compressed when
// that makes it smaller.
type record struct {
	Content    []byte `cbor:"content"`
	Compressed bool   `cbor:"compressed,omitempty"`
	Token      string `cbor:"token"`
	CreatedAt  int64  `cbor:"created_at"`
}

// zstd.Encoder and zstd.Decoder are safe for concurrent use via EncodeAll
// and DecodeAll.
var (
	encMode     cbor.EncMode
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("storage: CBOR encoder initialization failed: " + err.Error())
	}
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("storage: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("storage: zstd decoder initialization failed: " + err.Error())
	}
}

func encodeItem(it *item.Item) ([]byte, error) {
	rec := record{
		Content: it.Content,
		Token:   it.Token,
	}
	if !it.CreatedAt.IsZero() {
		rec.CreatedAt = it.CreatedAt.UnixNano()
	}
	if compressed := zstdEncoder.EncodeAll(it.Content, nil); len(compressed) < len(it.Content) {
		rec.Content = compressed
		rec.Compressed = true
	}
	return encMode.Marshal(rec)
}

func decodeItem(id string, data []byte) (*item.Item, error) {
	var rec record
	if err := cbor.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding item %s: %w", id, err)
	}
	content := rec.Content
	if rec.Compressed {
		var err error
		content, err = zstdDecoder.DecodeAll(rec.Content, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing item %s: %w", id, err)
		}
	}
	it := &item.Item{
		ID:      id,
		Content: content,
		Token:   rec.Token,
	}
	if rec.CreatedAt != 0 {
		it.CreatedAt = time.Unix(0, rec.CreatedAt).UTC()
	}
	return it, nil
}
