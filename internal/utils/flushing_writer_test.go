package utils_test

import (
	"bufio"
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/shellengine/internal/utils"
)

type countingFlushSink struct {
	bytes.Buffer
	flushCount int
}

func (sink *countingFlushSink) Flush() {
	sink.flushCount++
}

func TestFlushingWriterFlushesBufferedSinks(testInstance *testing.T) {
	testCases := []struct {
		name string
		run  func(testInstance *testing.T)
	}{
		{
			name: "error_returning_flush",
			run: func(testInstance *testing.T) {
				var destination bytes.Buffer
				bufferedWriter := bufio.NewWriterSize(&destination, 4096)

				flushingWriter := utils.NewFlushingWriter(bufferedWriter)
				writtenBytes, writeError := flushingWriter.Write([]byte("aString\n"))
				require.NoError(testInstance, writeError)
				require.Equal(testInstance, 8, writtenBytes)
				require.Equal(testInstance, "aString\n", destination.String())
				require.Equal(testInstance, int64(8), flushingWriter.(*utils.FlushingWriter).DeliveredBytes())
			},
		},
		{
			name: "plain_flush",
			run: func(testInstance *testing.T) {
				sink := &countingFlushSink{}
				flushingWriter := utils.NewFlushingWriter(sink)
				_, firstError := flushingWriter.Write([]byte("one"))
				require.NoError(testInstance, firstError)
				_, secondError := flushingWriter.Write([]byte("two"))
				require.NoError(testInstance, secondError)
				require.Equal(testInstance, 2, sink.flushCount)
				require.Equal(testInstance, "onetwo", sink.String())
			},
		},
		{
			name: "wrapping_is_idempotent",
			run: func(testInstance *testing.T) {
				flushingWriter := utils.NewFlushingWriter(&bytes.Buffer{})
				require.Same(testInstance, flushingWriter, utils.NewFlushingWriter(flushingWriter))
				require.Nil(testInstance, utils.NewFlushingWriter(nil))
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, testCase.run)
	}
}
