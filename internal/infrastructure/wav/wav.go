// Package wav frames raw PCM into a canonical 44-byte-header RIFF/WAVE container.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// HeaderSize is the length of the canonical PCM WAV header.
const HeaderSize = 44

// Format describes the PCM frames carried by the container.
type Format struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultFormat is mono 16-bit PCM at 24 kHz.
var DefaultFormat = Format{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

// ErrNotWAV is returned by ParseHeader for data without a RIFF/WAVE preamble.
var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// ErrFormatMismatch is returned by Merge when an embedded header disagrees
// with the output format.
var ErrFormatMismatch = errors.New("wav format mismatch")

// BlockAlign is the size in bytes of one frame (one sample for every channel).
func (f Format) BlockAlign() int { return f.Channels * f.BitsPerSample / 8 }

// ByteRate is the number of bytes per second of audio.
func (f Format) ByteRate() int { return f.SampleRate * f.BlockAlign() }

func (f Format) validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("invalid wav format %+v", f)
	}
	if f.BitsPerSample <= 0 || f.BitsPerSample%8 != 0 {
		return fmt.Errorf("invalid bits per sample %d", f.BitsPerSample)
	}
	return nil
}

// WriteHeader writes the 44-byte header for dataSize bytes of PCM.
func WriteHeader(w io.Writer, f Format, dataSize int) error {
	if err := f.validate(); err != nil {
		return err
	}
	var h [HeaderSize]byte
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+dataSize))
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(h[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(h[32:34], uint16(f.BlockAlign()))
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.BitsPerSample))
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(dataSize))
	_, err := w.Write(h[:])
	return err
}

// Encode writes a complete container holding pcm.
func Encode(w io.Writer, f Format, pcm []byte) error {
	if err := WriteHeader(w, f, len(pcm)); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

// Merge concatenates the PCM frames of buffers, in order, into one container.
// Buffers that are themselves WAV files contribute only their data chunk and
// must be in format f.
func Merge(f Format, buffers [][]byte) ([]byte, error) {
	frames := make([][]byte, len(buffers))
	total := 0
	for i, b := range buffers {
		h, err := ParseHeader(b)
		switch {
		case errors.Is(err, ErrNotWAV):
			frames[i] = b
		case err != nil:
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		case h.Format != f:
			return nil, fmt.Errorf("buffer %d: %w: got %d Hz/%d ch/%d bit, want %d Hz/%d ch/%d bit", i, ErrFormatMismatch,
				h.SampleRate, h.Channels, h.BitsPerSample, f.SampleRate, f.Channels, f.BitsPerSample)
		default:
			frames[i] = b[h.DataOffset : h.DataOffset+h.DataSize]
		}
		total += len(frames[i])
	}

	var out bytes.Buffer
	out.Grow(HeaderSize + total)
	if err := WriteHeader(&out, f, total); err != nil {
		return nil, err
	}
	for _, pcm := range frames {
		out.Write(pcm)
	}
	return out.Bytes(), nil
}

// Header is the decoded fmt and data information of a WAV stream.
type Header struct {
	Format
	DataOffset int
	DataSize   int
}

// ParseHeader walks the RIFF chunks of b and locates the fmt and data chunks.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < 12 || string(b[0:4]) != "RIFF" || string(b[8:12]) != "WAVE" {
		return h, ErrNotWAV
	}
	haveFmt := false
	off := 12
	for off+8 <= len(b) {
		id := string(b[off : off+4])
		size := int(binary.LittleEndian.Uint32(b[off+4 : off+8]))
		body := off + 8
		switch id {
		case "fmt ":
			if size < 16 || body+16 > len(b) {
				return h, fmt.Errorf("truncated fmt chunk")
			}
			h.Channels = int(binary.LittleEndian.Uint16(b[body+2 : body+4]))
			h.SampleRate = int(binary.LittleEndian.Uint32(b[body+4 : body+8]))
			h.BitsPerSample = int(binary.LittleEndian.Uint16(b[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return h, fmt.Errorf("data chunk before fmt chunk")
			}
			h.DataOffset = body
			// Streaming encoders may leave the size unset; clamp to what we have.
			h.DataSize = min(size, len(b)-body)
			return h, nil
		}
		off = body + size + size%2
	}
	return h, fmt.Errorf("missing data chunk")
}

// StripHeader returns the PCM payload of b. Data that is not a WAV stream is
// returned unchanged.
func StripHeader(b []byte) ([]byte, error) {
	h, err := ParseHeader(b)
	if errors.Is(err, ErrNotWAV) {
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	return b[h.DataOffset : h.DataOffset+h.DataSize], nil
}
