package csv

import "sync"

// chunkPool holds read buffers of DefaultChunkSize bytes. Other sizes are
// allocated per RowReader.
var chunkPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, DefaultChunkSize)
		return &b
	},
}

// getChunk returns a buffer of exactly size bytes.
func getChunk(size int) []byte {
	if size != DefaultChunkSize {
		return make([]byte, size)
	}
	p := chunkPool.Get().(*[]byte)
	return *p
}

// putChunk returns a buffer obtained from getChunk.
func putChunk(buf []byte) {
	if len(buf) != DefaultChunkSize {
		return
	}
	chunkPool.Put(&buf)
}
