package execshell

import (
	"bytes"
	"sync"
)

// captureBuffer accumulates stream output up to limit bytes and silently discards the rest so the
// producing process never blocks on a full pipe.
type captureBuffer struct {
	mutex     sync.Mutex
	limit     int
	buffer    bytes.Buffer
	truncated bool
}

func newCaptureBuffer(limit int) *captureBuffer {
	return &captureBuffer{limit: limit}
}

func (capture *captureBuffer) Write(data []byte) (int, error) {
	capture.mutex.Lock()
	defer capture.mutex.Unlock()

	if capture.limit <= 0 {
		capture.buffer.Write(data)
		return len(data), nil
	}

	remainingCapacity := capture.limit - capture.buffer.Len()
	if remainingCapacity <= 0 {
		if len(data) > 0 {
			capture.truncated = true
		}
		return len(data), nil
	}
	if len(data) > remainingCapacity {
		capture.buffer.Write(data[:remainingCapacity])
		capture.truncated = true
		return len(data), nil
	}

	capture.buffer.Write(data)
	return len(data), nil
}

func (capture *captureBuffer) Bytes() []byte {
	capture.mutex.Lock()
	defer capture.mutex.Unlock()
	return append([]byte(nil), capture.buffer.Bytes()...)
}

func (capture *captureBuffer) Truncated() bool {
	capture.mutex.Lock()
	defer capture.mutex.Unlock()
	return capture.truncated
}
