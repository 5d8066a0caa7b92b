package wav

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteHeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, DefaultFormat, 1000))

	b := buf.Bytes()
	require.Len(t, b, HeaderSize)
	assert.Equal(t, "RIFF", string(b[0:4]))
	assert.Equal(t, uint32(1036), binary.LittleEndian.Uint32(b[4:8]))
	assert.Equal(t, "WAVE", string(b[8:12]))
	assert.Equal(t, "fmt ", string(b[12:16]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[20:22]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(b[22:24]))
	assert.Equal(t, uint32(24000), binary.LittleEndian.Uint32(b[24:28]))
	assert.Equal(t, uint32(48000), binary.LittleEndian.Uint32(b[28:32]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(b[32:34]))
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(b[34:36]))
	assert.Equal(t, "data", string(b[36:40]))
	assert.Equal(t, uint32(1000), binary.LittleEndian.Uint32(b[40:44]))
}

func TestWriteHeaderRejectsBadFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteHeader(&buf, Format{SampleRate: 0, Channels: 1, BitsPerSample: 16}, 0))
	assert.Error(t, WriteHeader(&buf, Format{SampleRate: 8000, Channels: 1, BitsPerSample: 12}, 0))
}

func TestMergeIsHeaderPlusConcatenation(t *testing.T) {
	buffers := [][]byte{{1, 2, 3, 4}, {5, 6}, {}, {7, 8, 9, 10}}

	out, err := Merge(DefaultFormat, buffers)
	require.NoError(t, err)

	var want bytes.Buffer
	require.NoError(t, WriteHeader(&want, DefaultFormat, 10))
	want.Write([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	assert.Equal(t, want.Bytes(), out)

	h, err := ParseHeader(out)
	require.NoError(t, err)
	assert.Equal(t, DefaultFormat, h.Format)
	assert.Equal(t, 10, h.DataSize)
}

func TestMergeGrowsWithChunks(t *testing.T) {
	chunk := bytes.Repeat([]byte{0x10, 0x00}, 50)
	var buffers [][]byte
	prev := 0
	for i := 0; i < 5; i++ {
		out, err := Merge(DefaultFormat, buffers)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(out), prev)
		prev = len(out)
		buffers = append(buffers, chunk)
	}
}

func TestMergeEmpty(t *testing.T) {
	out, err := Merge(DefaultFormat, nil)
	require.NoError(t, err)
	assert.Len(t, out, HeaderSize)
}

func TestMergeStripsEmbeddedHeaders(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, Encode(&a, DefaultFormat, []byte{1, 2}))
	require.NoError(t, Encode(&b, DefaultFormat, []byte{3, 4}))

	out, err := Merge(DefaultFormat, [][]byte{a.Bytes(), b.Bytes(), {5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6}, out[HeaderSize:])
}

func TestMergeRejectsOtherFormats(t *testing.T) {
	var a bytes.Buffer
	require.NoError(t, Encode(&a, Format{SampleRate: 16000, Channels: 1, BitsPerSample: 16}, []byte{1, 2}))

	_, err := Merge(DefaultFormat, [][]byte{{0, 0}, a.Bytes()})
	assert.ErrorIs(t, err, ErrFormatMismatch)
	assert.Contains(t, err.Error(), "buffer 1")
}

func TestParseHeaderSkipsExtraChunks(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(0))
	buf.WriteString("WAVE")
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{'a', 'b', 'c', 0}) // odd size is padded
	var hdr bytes.Buffer
	require.NoError(t, WriteHeader(&hdr, Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}, 4))
	buf.Write(hdr.Bytes()[12:])
	buf.Write([]byte{9, 9, 9, 9})

	h, err := ParseHeader(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 16000, h.SampleRate)
	assert.Equal(t, 2, h.Channels)
	assert.Equal(t, 4, h.DataSize)

	pcm, err := StripHeader(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9, 9, 9}, pcm)
}

func TestParseHeaderErrors(t *testing.T) {
	_, err := ParseHeader([]byte("hello"))
	assert.ErrorIs(t, err, ErrNotWAV)

	_, err = ParseHeader([]byte("RIFF\x00\x00\x00\x00WAVEdata\x00\x00\x00\x00"))
	assert.Error(t, err)

	_, err = StripHeader([]byte("RIFF\x00\x00\x00\x00WAVE"))
	assert.Error(t, err)
}
