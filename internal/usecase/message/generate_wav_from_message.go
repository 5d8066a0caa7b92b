package message

import (
	"context"
	"strings"

	domainmsg "github.com/x4x3r/google-text-to-speach/internal/domain/message"
	"github.com/x4x3r/google-text-to-speach/internal/domain/text"
	"github.com/x4x3r/google-text-to-speach/internal/usecase/speech"
)

// GenerateWAVFromMessageInput is input DTO.
type GenerateWAVFromMessageInput struct {
	MessageID  string
	LimitChars int // 0 means no limit
	Upload     bool
}

// GenerateWAVFromMessageOutput is output DTO.
type GenerateWAVFromMessageOutput struct {
	ID        string `json:"id"`
	Subject   string `json:"subject"`
	LocalPath string `json:"localPath"`
	Bytes     int    `json:"bytes"`
	Chunks    int    `json:"chunks"`
	DriveLink string `json:"driveLink,omitempty"`
}

// GenerateWAVFromMessage implements usecase.UseCase.
type GenerateWAVFromMessage struct {
	repo   domainmsg.Repository
	speech *speech.GenerateWAVFromText
}

func NewGenerateWAVFromMessage(repo domainmsg.Repository, sp *speech.GenerateWAVFromText) *GenerateWAVFromMessage {
	return &GenerateWAVFromMessage{repo: repo, speech: sp}
}

// Execute converts the message body to a WAV stored under the message ID.
func (uc *GenerateWAVFromMessage) Execute(ctx context.Context, in *GenerateWAVFromMessageInput) (*GenerateWAVFromMessageOutput, error) {
	// 1. Fetch message
	msg, err := uc.repo.GetByID(ctx, domainmsg.ID(in.MessageID))
	if err != nil {
		return nil, err
	}

	body := strings.TrimSpace(msg.Body)
	if in.LimitChars > 0 {
		body = truncateRunes(body, in.LimitChars)
	}

	// 2. Synthesize and store
	res, err := uc.speech.Execute(ctx, &speech.GenerateWAVFromTextInput{
		Source:   text.Static(body),
		FileName: string(msg.ID),
		Upload:   in.Upload,
	})
	if err != nil {
		return nil, err
	}

	return &GenerateWAVFromMessageOutput{
		ID:        string(msg.ID),
		Subject:   msg.Subject,
		LocalPath: res.LocalPath,
		Bytes:     res.Bytes,
		Chunks:    res.Chunks,
		DriveLink: res.DriveLink,
	}, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[:n])
}
