package speech

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x4x3r/google-text-to-speach/internal/domain/audio"
	"github.com/x4x3r/google-text-to-speach/internal/domain/text"
	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/storage"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/wav"
)

// echoSynth returns the chunk bytes themselves as "audio".
type echoSynth struct {
	calls  []string
	failOn int // 1-based call index; 0 never fails
}

func (e *echoSynth) Synthesize(_ context.Context, s string) (*tts.Audio, error) {
	e.calls = append(e.calls, s)
	if e.failOn == len(e.calls) {
		return nil, errors.New("service unavailable")
	}
	return &tts.Audio{Data: []byte(s), Format: "LINEAR16"}, nil
}

type memParts struct{ saved map[int][]byte }

func (m *memParts) SavePart(runID string, index int, data []byte) (audio.Path, error) {
	if m.saved == nil {
		m.saved = map[int][]byte{}
	}
	m.saved[index] = data
	return audio.Path(runID), nil
}

type fakeUploader struct{ path string }

func (f *fakeUploader) Upload(_ context.Context, p string) (string, string, error) {
	f.path = p
	return "id-1", "https://drive/id-1", nil
}

func expectedWAV(t *testing.T, pcm string) []byte {
	t.Helper()
	var b bytes.Buffer
	require.NoError(t, wav.Encode(&b, wav.DefaultFormat, []byte(pcm)))
	return b.Bytes()
}

func TestExecuteWritesDeterministicWAV(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")
	synth := &echoSynth{}
	parts := &memParts{}
	uc := NewGenerateWAVFromText(synth, storage.NewFileStore(dir), wav.DefaultFormat, WithParts(parts))

	res, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{
		Source:     text.Static("Hello world"),
		OutputPath: out,
		ChunkSize:  5,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hello", " worl", "d"}, synth.calls)
	assert.Equal(t, 3, res.Chunks)
	assert.Equal(t, out, res.LocalPath)
	assert.NotEmpty(t, res.RunID)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, expectedWAV(t, "Hello world"), got)
	assert.Equal(t, len(got), res.Bytes)

	assert.Equal(t, []byte(" worl"), parts.saved[2])
	assert.Len(t, parts.saved, 3)
}

func TestExecuteDefaultsToStoreUnderRunID(t *testing.T) {
	dir := t.TempDir()
	uc := NewGenerateWAVFromText(&echoSynth{}, storage.NewFileStore(dir), wav.DefaultFormat)

	res, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{
		Source: text.Static(strings.Repeat("a", 81)),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks, "default chunk size is 40")
	assert.Equal(t, filepath.Join(dir, res.RunID+".wav"), res.LocalPath)
	assert.FileExists(t, res.LocalPath)
}

func TestExecuteAbortsOnSynthesisFailure(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.wav")
	synth := &echoSynth{failOn: 2}
	uc := NewGenerateWAVFromText(synth, storage.NewFileStore(dir), wav.DefaultFormat)

	_, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{
		Source:     text.Static("Hello world"),
		OutputPath: out,
		ChunkSize:  5,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chunk 2/3")
	assert.Len(t, synth.calls, 2, "no calls after the failing chunk")
	assert.NoFileExists(t, out)
}

func TestExecuteEmptyInput(t *testing.T) {
	uc := NewGenerateWAVFromText(&echoSynth{}, storage.NewFileStore(t.TempDir()), wav.DefaultFormat)
	_, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{Source: text.Static("")})
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestExecuteInvalidChunkSize(t *testing.T) {
	uc := NewGenerateWAVFromText(&echoSynth{}, storage.NewFileStore(t.TempDir()), wav.DefaultFormat)
	_, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{Source: text.Static("abc"), ChunkSize: -1})
	assert.ErrorIs(t, err, text.ErrInvalidChunkSize)
}

func TestExecuteUploads(t *testing.T) {
	up := &fakeUploader{}
	uc := NewGenerateWAVFromText(&echoSynth{}, storage.NewFileStore(t.TempDir()), wav.DefaultFormat, WithUploader(up))

	res, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{Source: text.Static("abc"), Upload: true})
	require.NoError(t, err)
	assert.Equal(t, res.LocalPath, up.path)
	assert.Equal(t, "id-1", res.DriveID)
	assert.Equal(t, "https://drive/id-1", res.DriveLink)
}

func TestExecuteUploadWithoutUploader(t *testing.T) {
	uc := NewGenerateWAVFromText(&echoSynth{}, storage.NewFileStore(t.TempDir()), wav.DefaultFormat)
	res, err := uc.Execute(context.Background(), &GenerateWAVFromTextInput{Source: text.Static("abc"), Upload: true})
	assert.Error(t, err)
	require.NotNil(t, res, "the local file is still reported")
	assert.FileExists(t, res.LocalPath)
}

func TestRenderBoundaryStrategy(t *testing.T) {
	synth := &echoSynth{}
	uc := NewGenerateWAVFromText(synth, nil, wav.DefaultFormat)

	data, err := uc.Render(context.Background(), "One. Two three", 6, text.Boundary)
	require.NoError(t, err)
	assert.Equal(t, []string{"One.", " Two ", "three"}, synth.calls)
	assert.Equal(t, expectedWAV(t, "One. Two three"), data)
}

func TestOutputGrowsWithChunks(t *testing.T) {
	uc := NewGenerateWAVFromText(&echoSynth{}, nil, wav.DefaultFormat)
	prev := 0
	for n := 1; n <= 6; n++ {
		data, err := uc.Render(context.Background(), strings.Repeat("ab", n*3), 3, text.Fixed)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(data), prev)
		prev = len(data)
	}
}

func TestSynthesizeAllStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	synth := &echoSynth{}
	_, err := SynthesizeAll(ctx, synth, []string{"a", "b", "c"}, func(i int, _ *tts.Audio) {
		if i == 0 {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"a"}, synth.calls)
}

type silentSynth struct{}

func (silentSynth) Synthesize(context.Context, string) (*tts.Audio, error) { return nil, nil }

func TestSynthesizeAllRejectsMissingAudio(t *testing.T) {
	_, err := SynthesizeAll(context.Background(), silentSynth{}, []string{"a", "b"}, nil)
	assert.ErrorIs(t, err, ErrNoAudio)
	assert.Contains(t, err.Error(), "chunk 1/2")
}
