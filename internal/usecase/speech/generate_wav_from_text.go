package speech

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/rs/xid"

	"github.com/x4x3r/google-text-to-speach/internal/domain/audio"
	"github.com/x4x3r/google-text-to-speach/internal/domain/text"
	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
	"github.com/x4x3r/google-text-to-speach/internal/infrastructure/wav"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

// ErrEmptyText is returned when the source yields no text to synthesize.
var ErrEmptyText = errors.New("input text is empty")

// ErrNoAudio is returned when a synthesizer reports success without audio.
var ErrNoAudio = errors.New("synthesizer returned no audio")

// PartSaver keeps the raw audio of individual chunks.
type PartSaver interface {
	SavePart(runID string, index int, data []byte) (audio.Path, error)
}

// GenerateWAVFromTextInput is input DTO.
type GenerateWAVFromTextInput struct {
	Source     text.Source
	OutputPath string // empty means store.Save under FileName
	FileName   string // defaults to the run ID
	ChunkSize  int    // 0 means text.DefaultChunkSize
	Strategy   text.Strategy
	Upload     bool
}

// GenerateWAVFromTextOutput is output DTO.
type GenerateWAVFromTextOutput struct {
	RunID     string `json:"runId"`
	LocalPath string `json:"localPath"`
	Chunks    int    `json:"chunks"`
	Bytes     int    `json:"bytes"`
	DriveID   string `json:"driveId,omitempty"`
	DriveLink string `json:"driveLink,omitempty"`
	WAV       []byte `json:"-"`
}

// GenerateWAVFromText implements usecase.UseCase: read, chunk, synthesize
// each chunk in order, merge into one WAV, write it.
type GenerateWAVFromText struct {
	synthesizer tts.Synthesizer
	store       audio.Store
	format      wav.Format
	parts       PartSaver
	uploader    audio.Uploader
	logger      *log.Logger
}

// Option customizes GenerateWAVFromText.
type Option func(*GenerateWAVFromText)

// WithParts stores each chunk's audio through ps.
func WithParts(ps PartSaver) Option {
	return func(uc *GenerateWAVFromText) { uc.parts = ps }
}

// WithUploader enables uploading the written file when the input asks for it.
func WithUploader(u audio.Uploader) Option {
	return func(uc *GenerateWAVFromText) { uc.uploader = u }
}

func NewGenerateWAVFromText(synth tts.Synthesizer, store audio.Store, format wav.Format, opts ...Option) *GenerateWAVFromText {
	uc := &GenerateWAVFromText{
		synthesizer: synth,
		store:       store,
		format:      format,
		logger:      logging.Named("flow"),
	}
	for _, o := range opts {
		o(uc)
	}
	return uc
}

// Execute runs the whole pipeline. Nothing is written if any step fails.
func (uc *GenerateWAVFromText) Execute(ctx context.Context, in *GenerateWAVFromTextInput) (*GenerateWAVFromTextOutput, error) {
	runID := xid.New().String()
	logger := uc.logger.With("run", runID)

	// 1. Read
	input, err := in.Source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	logger.Info("input loaded", "chars", len([]rune(input)))

	// 2-4. Chunk, synthesize, merge
	data, chunks, err := uc.render(ctx, runID, input, in.ChunkSize, in.Strategy)
	if err != nil {
		return nil, err
	}

	// 5. Write
	var path audio.Path
	if in.OutputPath != "" {
		path, err = uc.store.WriteFile(in.OutputPath, data)
	} else {
		name := in.FileName
		if name == "" {
			name = runID
		}
		path, err = uc.store.Save(data, name)
	}
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}
	logger.Info(fmt.Sprintf("Audio content written to file %q", path), "bytes", len(data))

	out := &GenerateWAVFromTextOutput{
		RunID:     runID,
		LocalPath: string(path),
		Chunks:    chunks,
		Bytes:     len(data),
		WAV:       data,
	}

	// 6. Optionally upload
	if in.Upload {
		if uc.uploader == nil {
			return out, errors.New("upload requested but no uploader configured")
		}
		id, link, err := uc.uploader.Upload(ctx, string(path))
		if err != nil {
			return out, fmt.Errorf("upload: %w", err)
		}
		out.DriveID, out.DriveLink = id, link
	}
	return out, nil
}

// Render chunks and synthesizes text and returns the merged WAV container
// without storing it.
func (uc *GenerateWAVFromText) Render(ctx context.Context, input string, chunkSize int, strategy text.Strategy) ([]byte, error) {
	data, _, err := uc.render(ctx, xid.New().String(), input, chunkSize, strategy)
	return data, err
}

func (uc *GenerateWAVFromText) render(ctx context.Context, runID, input string, chunkSize int, strategy text.Strategy) ([]byte, int, error) {
	if input == "" {
		return nil, 0, ErrEmptyText
	}
	if chunkSize == 0 {
		chunkSize = text.DefaultChunkSize
	}
	if strategy == "" {
		strategy = text.Fixed
	}
	chunks, err := strategy.Chunk(input, chunkSize)
	if err != nil {
		return nil, 0, err
	}
	uc.logger.Debug("chunks", "run", runID, "count", len(chunks), "chunks", chunks)

	buffers, err := SynthesizeAll(ctx, uc.synthesizer, chunks, func(i int, a *tts.Audio) {
		uc.logger.Info("chunk synthesized", "run", runID, "chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)), "bytes", len(a.Data))
		if uc.parts == nil {
			return
		}
		if p, err := uc.parts.SavePart(runID, i+1, a.Data); err != nil {
			uc.logger.Warn("failed to save part", "run", runID, "chunk", i+1, "err", err)
		} else {
			uc.logger.Debug("saved part", "path", p)
		}
	})
	if err != nil {
		return nil, 0, err
	}

	data, err := wav.Merge(uc.format, buffers)
	if err != nil {
		return nil, 0, fmt.Errorf("merge audio: %w", err)
	}
	return data, len(chunks), nil
}

// SynthesizeAll calls synth once per chunk, sequentially and in order, and
// returns one buffer per chunk. The first failure aborts the run. onDone, if
// non-nil, is called after each successful chunk.
func SynthesizeAll(ctx context.Context, synth tts.Synthesizer, chunks []string, onDone func(i int, a *tts.Audio)) ([][]byte, error) {
	buffers := make([][]byte, 0, len(chunks))
	start := time.Now()
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a, err := synth.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if a == nil {
			return nil, fmt.Errorf("synthesize chunk %d/%d: %w", i+1, len(chunks), ErrNoAudio)
		}
		buffers = append(buffers, a.Data)
		if onDone != nil {
			onDone(i, a)
		}
	}
	logging.Named("tts").Debug("all chunks synthesized", "count", len(chunks), "elapsed", time.Since(start).Round(time.Millisecond))
	return buffers, nil
}
