package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/api/gmail/v1"

	"github.com/x4x3r/google-text-to-speach/internal/domain/message"
	"github.com/x4x3r/google-text-to-speach/internal/logging"
)

const previewRunes = 40

// MessageRepository implements domain message.Repository backed by Gmail API.
type MessageRepository struct {
	srv    *gmail.Service
	logger *log.Logger
}

func NewMessageRepository(srv *gmail.Service) *MessageRepository {
	return &MessageRepository{srv: srv, logger: logging.Named("gmail")}
}

// GetByID fetches Gmail message, aggregates plain text / html to EmailMessage Body.
func (r *MessageRepository) GetByID(ctx context.Context, id message.ID) (*message.EmailMessage, error) {
	r.logger.Debug("get message", "id", id)
	gm, err := r.srv.Users.Messages.Get("me", string(id)).Format("full").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("gmail get message: %w", err)
	}
	subj := ""
	if gm.Payload != nil {
		subj = header(gm.Payload.Headers, "subject")
	}
	return &message.EmailMessage{ID: id, Subject: subj, Body: collectMessageText(gm)}, nil
}

// List returns up to max INBOX messages matching the Gmail search query.
func (r *MessageRepository) List(ctx context.Context, query string, max int64) ([]message.Summary, error) {
	call := r.srv.Users.Messages.List("me").LabelIds("INBOX").MaxResults(max).Context(ctx)
	if strings.TrimSpace(query) != "" {
		call = call.Q(query)
	}
	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("gmail list messages: %w", err)
	}

	summaries := make([]message.Summary, 0, len(res.Messages))
	for _, m := range res.Messages {
		msg, err := r.srv.Users.Messages.Get("me", m.Id).Format("metadata").
			MetadataHeaders("Subject", "From").Context(ctx).Do()
		if err != nil {
			r.logger.Warn("failed to get message", "id", m.Id, "err", err)
			continue
		}
		s := message.Summary{
			ID:           message.ID(m.Id),
			Subject:      "(no subject)",
			Preview:      truncateRunes(msg.Snippet, previewRunes),
			InternalDate: msg.InternalDate,
		}
		if msg.Payload != nil {
			if v := header(msg.Payload.Headers, "subject"); v != "" {
				s.Subject = v
			}
			s.From = header(msg.Payload.Headers, "from")
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// MessageSource is a text.Source reading the body of one Gmail message.
type MessageSource struct {
	Repo message.Repository
	ID   message.ID
}

// Load fetches the message and returns its body.
func (s MessageSource) Load(ctx context.Context) (string, error) {
	msg, err := s.Repo.GetByID(ctx, s.ID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(msg.Body) == "" {
		return "", fmt.Errorf("message %s has no text content", s.ID)
	}
	return msg.Body, nil
}

func header(hs []*gmail.MessagePartHeader, name string) string {
	for _, h := range hs {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[:n])
}

func extractHTML(p *gmail.MessagePart) string {
	if p == nil {
		return ""
	}
	if p.MimeType == "text/html" && p.Body != nil && p.Body.Data != "" {
		if data, err := decodePart(p.Body.Data); err == nil {
			return string(data)
		}
	}
	for _, part := range p.Parts {
		if h := extractHTML(part); h != "" {
			return h
		}
	}
	return ""
}

func stripHTML(s string) string {
	inTag := false
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '<':
			inTag = true
		case '>':
			inTag = false
		default:
			if !inTag {
				b.WriteRune(r)
			}
		}
	}
	return strings.TrimSpace(b.String())
}

func gatherPlainText(p *gmail.MessagePart, out *[]string) {
	if p == nil {
		return
	}
	if p.MimeType == "text/plain" && p.Body != nil && p.Body.Data != "" {
		if data, err := decodePart(p.Body.Data); err == nil {
			*out = append(*out, string(data))
		}
	}
	for _, part := range p.Parts {
		gatherPlainText(part, out)
	}
}

// decodePart decodes Gmail's base64url body data, padded or not.
func decodePart(data string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.RawURLEncoding.DecodeString(data)
}

// collectMessageText prefers text/plain parts and falls back to stripped HTML
// or the snippet when the plain text is short.
func collectMessageText(msg *gmail.Message) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	var plainParts []string
	gatherPlainText(msg.Payload, &plainParts)
	plainText := strings.TrimSpace(strings.Join(plainParts, "\n"))

	if len([]rune(plainText)) >= 300 {
		return plainText
	}

	if html := extractHTML(msg.Payload); html != "" {
		txt := stripHTML(html)
		if len([]rune(txt)) > len([]rune(plainText)) {
			return txt
		}
	}

	if plainText != "" {
		return plainText
	}
	return msg.Snippet
}
