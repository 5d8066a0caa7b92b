package usecase

import (
	"context"

	"github.com/x4x3r/google-text-to-speach/internal/usecase/message"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

// UseCase represents application use cases having input I and output O.
type UseCase[I any, O any] interface {
	Execute(ctx context.Context, in *I) (*O, error)
}

var (
	_ UseCase[speech.GenerateWAVFromTextInput, speech.GenerateWAVFromTextOutput]         = (*speech.GenerateWAVFromText)(nil)
	_ UseCase[message.GenerateWAVFromMessageInput, message.GenerateWAVFromMessageOutput] = (*message.GenerateWAVFromMessage)(nil)
)
