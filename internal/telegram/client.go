package telegram

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tubedigest/internal/domain"
	"tubedigest/internal/ports"
)

// MaxMessageLength is Telegram's hard per-message character limit.
const MaxMessageLength = 4096

const defaultAPIBase = "https://api.telegram.org"

// Client sends summaries and documents to a Telegram chat via bot API.
type Client struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

var _ ports.Messenger = (*Client)(nil)

// NewClient registers bot token and chat identifier.
func NewClient(botToken, chatID string) *Client {
	return &Client{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  defaultAPIBase,
		client:   &http.Client{Timeout: 60 * time.Second},
	}
}

// SendVideoSummary posts one summary as a titled message. Oversized bodies
// are split into ordered continuation chunks.
func (c *Client) SendVideoSummary(ctx context.Context, video domain.Video, body string) error {
	header := "<b>" + escapeHTML(video.Title) + "</b>\n" + video.URL + "\n\n"
	full := header + escapeHTML(body)
	if len([]rune(full)) <= MaxMessageLength {
		return c.sendMessage(ctx, full, "HTML")
	}

	// Header and body go out separately; continuation chunks are sent
	// without a parse mode so a split can never break an HTML tag.
	if err := c.sendMessage(ctx, header, "HTML"); err != nil {
		return err
	}
	for _, chunk := range SplitMessage(body, MaxMessageLength) {
		if strings.TrimSpace(chunk) == "" {
			continue
		}
		if err := c.sendMessage(ctx, chunk, ""); err != nil {
			return err
		}
	}
	return nil
}

// SendDocument uploads a file as an attachment with the given caption.
func (c *Client) SendDocument(ctx context.Context, path, caption string) error {
	if c.botToken == "" || c.chatID == "" {
		return fmt.Errorf("telegram client misconfigured")
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	if err := form.WriteField("chat_id", c.chatID); err != nil {
		return fmt.Errorf("write chat_id: %w", err)
	}
	if caption != "" {
		if err := form.WriteField("caption", truncateCaption(caption)); err != nil {
			return fmt.Errorf("write caption: %w", err)
		}
	}
	fw, err := form.CreateFormFile("document", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendDocument", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

func (c *Client) sendMessage(ctx context.Context, text, parseMode string) error {
	if c.botToken == "" || c.chatID == "" {
		return fmt.Errorf("telegram client misconfigured")
	}

	form := url.Values{}
	form.Set("chat_id", c.chatID)
	form.Set("text", text)
	if parseMode != "" {
		form.Set("parse_mode", parseMode)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}
	return nil
}

// SplitMessage splits text into ordered chunks of at most limit characters,
// cutting at the nearest newline before the limit when one exists.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 {
		limit = MaxMessageLength
	}

	runes := []rune(text)
	var chunks []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > 0; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}
	return chunks
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// truncateCaption keeps captions under Telegram's 1024-character cap.
func truncateCaption(s string) string {
	runes := []rune(s)
	if len(runes) <= 1024 {
		return s
	}
	return string(runes[:1021]) + "..."
}
