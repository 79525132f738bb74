package utils

import (
	"io"
	"sync"
)

type errorFlusher interface {
	Flush() error
}

type plainFlusher interface {
	Flush()
}

// FlushingWriter forwards output to a sink, flushing buffered sinks after every write so forwarded
// command output appears immediately. Writes are serialized and the delivered byte count is tracked.
type FlushingWriter struct {
	mutex          sync.Mutex
	sink           io.Writer
	deliveredBytes int64
}

// NewFlushingWriter wraps sink. Nil sinks stay nil and already wrapped sinks are returned unchanged.
func NewFlushingWriter(sink io.Writer) io.Writer {
	switch typedSink := sink.(type) {
	case nil:
		return nil
	case *FlushingWriter:
		return typedSink
	default:
		return &FlushingWriter{sink: sink}
	}
}

// Write delivers data to the sink and flushes it when the sink buffers.
func (flushingWriter *FlushingWriter) Write(data []byte) (int, error) {
	if flushingWriter == nil || flushingWriter.sink == nil {
		return 0, nil
	}

	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()

	writtenBytes, writeError := flushingWriter.sink.Write(data)
	flushingWriter.deliveredBytes += int64(writtenBytes)
	if writeError != nil {
		return writtenBytes, writeError
	}

	switch flushableSink := flushingWriter.sink.(type) {
	case errorFlusher:
		return writtenBytes, flushableSink.Flush()
	case plainFlusher:
		flushableSink.Flush()
	}
	return writtenBytes, nil
}

// DeliveredBytes reports how many bytes reached the sink.
func (flushingWriter *FlushingWriter) DeliveredBytes() int64 {
	if flushingWriter == nil {
		return 0
	}
	flushingWriter.mutex.Lock()
	defer flushingWriter.mutex.Unlock()
	return flushingWriter.deliveredBytes
}
