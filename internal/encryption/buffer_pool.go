package encryption

import (
	"sync"
)

const defaultBufferSize = 32 * 1024 // 32KB default buffer size

// bufferPool provides a pool of reusable byte slices for the pipeline reader stage.
//
//nolint:gochecknoglobals
var bufferPool = sync.Pool{
	New: func() any {
		return make([]byte, defaultBufferSize)
	},
}

func getBuffer() []byte {
	buf, ok := bufferPool.Get().([]byte)
	if !ok {
		return make([]byte, defaultBufferSize)
	}

	return buf
}

func putBuffer(buf []byte) {
	bufferPool.Put(buf[:cap(buf)]) //nolint:staticcheck
}
