package teamup

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Response — разобранное JSON тело ответа TeamUp.
type Response map[string]any

// User — найденный пользователь TeamUp.
type User struct {
	Name  string `json:"name"`
	Index int64  `json:"index"`
}

// SearchResult — ответ поиска пользователей.
type SearchResult struct {
	Users []User `json:"users"`
}

type messageBody struct {
	Content string `json:"content"`
}

type feedBody struct {
	Content string `json:"content"`
	Push    int    `json:"push"`
}

type noteRecipient struct {
	Name string `json:"name"`
	User int64  `json:"user"`
}

type noteBody struct {
	To      []noteRecipient `json:"to"`
	Title   string          `json:"title"`
	Content string          `json:"content"`
	Files   []string        `json:"files"`
}

// SendChat отправляет сообщение в чат-комнату roomID.
func (c *Client) SendChat(ctx context.Context, roomID int64, content string) (Response, error) {
	var out Response
	endpoint := c.edgeURL + "/v3/message/" + strconv.FormatInt(roomID, 10)
	err := c.Request(ctx, http.MethodPost, endpoint, messageBody{Content: content}, nil, &out)
	return out, err
}

// SendFeed публикует пост в группу ленты feedGroupID; push передаётся как 1 или 0.
func (c *Client) SendFeed(ctx context.Context, feedGroupID int64, content string, push bool) (Response, error) {
	body := feedBody{Content: content}
	if push {
		body.Push = 1
	}

	var out Response
	endpoint := c.edgeURL + "/v3/feed/" + strconv.FormatInt(feedGroupID, 10)
	err := c.Request(ctx, http.MethodPost, endpoint, body, nil, &out)
	return out, err
}

// SearchUser ищет пользователей по свободному запросу.
func (c *Client) SearchUser(ctx context.Context, query string) (SearchResult, error) {
	var out SearchResult
	err := c.Request(ctx, http.MethodGet, c.authURL+"/v1/search/1", nil, url.Values{"query": {query}}, &out)
	return out, err
}

// SendNote отправляет записку пользователю userName с индексом userIndex.
func (c *Client) SendNote(ctx context.Context, userName string, userIndex int64, title, content string) (Response, error) {
	body := noteBody{
		To:      []noteRecipient{{Name: userName, User: userIndex}},
		Title:   title,
		Content: content,
		Files:   []string{},
	}

	var out Response
	err := c.Request(ctx, http.MethodPost, c.edgeURL+"/v3/note/1/1", body, nil, &out)
	return out, err
}
