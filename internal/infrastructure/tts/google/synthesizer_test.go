package google

import (
	"context"
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x4x3r/google-text-to-speach/internal/domain/tts"
)

type fakeClient struct {
	requests []*texttospeechpb.SynthesizeSpeechRequest
	deadline bool
	err      error
	voices   []*texttospeechpb.Voice
	closed   bool
}

func (f *fakeClient) SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, _ ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error) {
	_, f.deadline = ctx.Deadline()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &texttospeechpb.SynthesizeSpeechResponse{AudioContent: []byte(req.GetInput().GetText())}, nil
}

func (f *fakeClient) ListVoices(_ context.Context, req *texttospeechpb.ListVoicesRequest, _ ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error) {
	return &texttospeechpb.ListVoicesResponse{Voices: f.voices}, nil
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func TestSynthesizeBuildsRequest(t *testing.T) {
	fc := &fakeClient{}
	s, err := newSynthesizer(fc, tts.DefaultVoice, 0)
	require.NoError(t, err)

	audio, err := s.Synthesize(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), audio.Data)
	assert.Equal(t, "LINEAR16", audio.Format)

	require.Len(t, fc.requests, 1)
	req := fc.requests[0]
	assert.Equal(t, "Hello", req.GetInput().GetText())
	assert.Equal(t, "en-US", req.GetVoice().GetLanguageCode())
	assert.Equal(t, "en-US-Wavenet-D", req.GetVoice().GetName())
	assert.Equal(t, texttospeechpb.AudioEncoding_LINEAR16, req.GetAudioConfig().GetAudioEncoding())
	assert.Equal(t, int32(24000), req.GetAudioConfig().GetSampleRateHertz())
	assert.True(t, fc.deadline, "a per-call deadline should be applied")
}

func TestSynthesizeKeepsCallerDeadline(t *testing.T) {
	fc := &fakeClient{}
	s, err := newSynthesizer(fc, tts.DefaultVoice, time.Hour)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	_, err = s.Synthesize(ctx, "x")
	require.NoError(t, err)
	assert.True(t, fc.deadline)
}

func TestSynthesizeWrapsError(t *testing.T) {
	boom := errors.New("boom")
	s, err := newSynthesizer(&fakeClient{err: boom}, tts.DefaultVoice, 0)
	require.NoError(t, err)

	_, err = s.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, boom)
}

func TestNewSynthesizerRejectsUnknownEncoding(t *testing.T) {
	v := tts.DefaultVoice
	v.Encoding = "FLAC9"
	_, err := newSynthesizer(&fakeClient{}, v, 0)
	assert.Error(t, err)

	v.Encoding = "AUDIO_ENCODING_UNSPECIFIED"
	_, err = newSynthesizer(&fakeClient{}, v, 0)
	assert.Error(t, err)
}

func TestListVoices(t *testing.T) {
	fc := &fakeClient{voices: []*texttospeechpb.Voice{{
		Name:                   "en-US-Wavenet-D",
		LanguageCodes:          []string{"en-US"},
		SsmlGender:             texttospeechpb.SsmlVoiceGender_MALE,
		NaturalSampleRateHertz: 24000,
	}}}
	s, err := newSynthesizer(fc, tts.DefaultVoice, 0)
	require.NoError(t, err)

	voices, err := s.ListVoices(context.Background(), "en-US")
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, tts.VoiceInfo{
		Name:                   "en-US-Wavenet-D",
		LanguageCodes:          []string{"en-US"},
		Gender:                 "MALE",
		NaturalSampleRateHertz: 24000,
	}, voices[0])

	require.NoError(t, s.Close())
	assert.True(t, fc.closed)
}

func TestWithVoiceName(t *testing.T) {
	fc := &fakeClient{}
	s, err := newSynthesizer(fc, tts.DefaultVoice, 0)
	require.NoError(t, err)

	ja := s.WithVoiceName("ja-JP-Wavenet-B")
	_, err = ja.Synthesize(context.Background(), "こんにちは")
	require.NoError(t, err)
	_, err = s.Synthesize(context.Background(), "hi")
	require.NoError(t, err)

	require.Len(t, fc.requests, 2)
	assert.Equal(t, "ja-JP", fc.requests[0].GetVoice().GetLanguageCode())
	assert.Equal(t, "ja-JP-Wavenet-B", fc.requests[0].GetVoice().GetName())
	assert.Equal(t, "en-US-Wavenet-D", fc.requests[1].GetVoice().GetName(), "receiver keeps its voice")
}
