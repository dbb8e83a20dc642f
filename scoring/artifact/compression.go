package artifact

import (
	"bytes"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdMagic is the little-endian zstd frame magic number 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

var (
	zenc *zstd.Encoder
	zdec *zstd.Decoder
	zmu  sync.Mutex
)

func zstdEncoder() (*zstd.Encoder, error) {
	zmu.Lock()
	defer zmu.Unlock()
	if zenc != nil {
		return zenc, nil
	}
	// Artifacts are written once and read at every startup; favour ratio.
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return nil, err
	}
	zenc = enc
	return zenc, nil
}

func zstdDecoder() (*zstd.Decoder, error) {
	zmu.Lock()
	defer zmu.Unlock()
	if zdec != nil {
		return zdec, nil
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, err
	}
	zdec = dec
	return zdec, nil
}

// isCompressed reports whether data starts with a zstd frame.
func isCompressed(data []byte) bool {
	return bytes.HasPrefix(data, zstdMagic)
}

func compress(data []byte) ([]byte, error) {
	enc, err := zstdEncoder()
	if err != nil {
		return nil, err
	}
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func decompress(cdata []byte) ([]byte, error) {
	dec, err := zstdDecoder()
	if err != nil {
		return nil, err
	}
	return dec.DecodeAll(cdata, make([]byte, 0, len(cdata)*3))
}
