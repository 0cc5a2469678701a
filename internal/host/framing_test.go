package host

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFraming_RoundTrip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteMessage(&buf, []byte(`{"action":"detect_platform"}`)))
	require.NoError(t, WriteMessage(&buf, []byte(`{}`)))

	assert.Equal(t, uint32(28), binary.NativeEndian.Uint32(buf.Bytes()[:4]))

	first, err := ReadMessage(&buf, MaxInboundSize)
	require.NoError(t, err)
	assert.Equal(t, `{"action":"detect_platform"}`, string(first))

	second, err := ReadMessage(&buf, MaxInboundSize)
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(second))

	_, err = ReadMessage(&buf, MaxInboundSize)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessage_TooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.NativeEndian, uint32(100)))
	buf.Write(make([]byte, 100))

	_, err := ReadMessage(&buf, 10)
	assert.ErrorIs(t, err, ErrMessageTooLarge)
}

func TestReadMessage_Truncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.NativeEndian, uint32(10)))
	buf.WriteString("abc")

	_, err := ReadMessage(&buf, MaxInboundSize)
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestReadMessage_PartialPrefix(t *testing.T) {
	_, err := ReadMessage(bytes.NewReader([]byte{1, 0}), MaxInboundSize)
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}

func TestWriteMessage_OutboundCap(t *testing.T) {
	var buf bytes.Buffer

	err := WriteMessage(&buf, make([]byte, MaxOutboundSize+1))

	assert.ErrorIs(t, err, ErrMessageTooLarge)
	assert.Zero(t, buf.Len())
	assert.NoError(t, WriteMessage(&buf, make([]byte, MaxOutboundSize)))
}
