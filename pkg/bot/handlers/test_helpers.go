package handlers

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	telegram "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type recordedRequest struct {
	path        string
	method      string
	contentType string
	body        []byte
}

type mockClient struct {
	requests []recordedRequest
	response string
}

func newMockClient() *mockClient {
	return &mockClient{
		response: `{"ok":true,"result":{}}`,
	}
}

func (m *mockClient) Do(req *http.Request) (*http.Response, error) {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if err := req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}
	m.requests = append(m.requests, recordedRequest{
		path:        req.URL.Path,
		method:      req.Method,
		contentType: req.Header.Get("Content-Type"),
		body:        body,
	})

	resp := &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(m.response)),
		Header:     make(http.Header),
	}
	return resp, nil
}

func (m *mockClient) multipartField(t *testing.T, req recordedRequest, fieldName string) (string, bool) {
	t.Helper()

	mediaType, params, err := mime.ParseMediaType(req.contentType)
	if err != nil {
		t.Fatalf("failed to parse media type: %v", err)
	}
	if !strings.HasPrefix(mediaType, "multipart/") {
		t.Fatalf("unexpected media type: %s", mediaType)
	}

	reader := multipart.NewReader(bytes.NewReader(req.body), params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read multipart part: %v", err)
		}
		if part.FormName() == fieldName {
			data, err := io.ReadAll(part)
			if err != nil {
				t.Fatalf("failed to read multipart field: %v", err)
			}
			return string(data), true
		}
	}
	return "", false
}

// messageTexts returns the text of every sendMessage call, in order.
func (m *mockClient) messageTexts(t *testing.T) []string {
	t.Helper()
	var texts []string
	for _, req := range m.requests {
		if !strings.HasSuffix(req.path, "/sendMessage") {
			continue
		}
		if text, ok := m.multipartField(t, req, "text"); ok {
			texts = append(texts, text)
		}
	}
	return texts
}

// messageChatIDs returns the chat_id of every sendMessage call, in order.
func (m *mockClient) messageChatIDs(t *testing.T) []string {
	t.Helper()
	var ids []string
	for _, req := range m.requests {
		if !strings.HasSuffix(req.path, "/sendMessage") {
			continue
		}
		if id, ok := m.multipartField(t, req, "chat_id"); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (m *mockClient) lastMessageText(t *testing.T) string {
	t.Helper()
	texts := m.messageTexts(t)
	if len(texts) == 0 {
		t.Fatalf("expected at least one sent message")
	}
	return texts[len(texts)-1]
}

func (m *mockClient) lastRequestBody(t *testing.T) string {
	t.Helper()
	if len(m.requests) == 0 {
		t.Fatalf("expected at least one recorded request")
	}
	return string(m.requests[len(m.requests)-1].body)
}

func newTestTelegramBot(t *testing.T, client *mockClient) *telegram.Bot {
	t.Helper()
	b, err := telegram.New("test-token",
		telegram.WithSkipGetMe(),
		telegram.WithHTTPClient(time.Second, client),
	)
	if err != nil {
		t.Fatalf("failed to create test bot: %v", err)
	}
	return b
}

func newTestUpdate(text string, userID int64) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{
				ID:        userID,
				FirstName: fmt.Sprintf("user%d", userID),
			},
			Chat: models.Chat{
				ID: userID,
			},
			Text: text,
		},
	}
}

func newTestCallbackUpdate(data string, userID, chatID int64, messageID int) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID: "callback-1",
			From: models.User{
				ID:        userID,
				FirstName: fmt.Sprintf("user%d", userID),
			},
			Data: data,
			Message: models.MaybeInaccessibleMessage{
				Type: models.MaybeInaccessibleMessageTypeMessage,
				Message: &models.Message{
					ID: messageID,
					Chat: models.Chat{
						ID:   chatID,
						Type: models.ChatTypePrivate,
					},
				},
			},
		},
	}
}
