// Package social is a client for the social-posting API the agent is bridged to.
// It is unrelated to chatrooms: posts, a feed and comments, bearer authenticated.
package social

import (
	"bytes"
	"chat-relay/errors"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type PostRequest struct {
	Title     string `json:"title" validate:"required,max=300"`
	Content   string `json:"content" validate:"required,max=40000"`
	Community string `json:"community,omitempty" validate:"max=100"`
	URL       string `json:"url,omitempty" validate:"omitempty,url"`
}

type Post struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Community string    `json:"community"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string, client *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), token: token, client: client}
}

func (c *Client) Configured() bool {
	return c.baseURL != "" && c.token != ""
}

// Post publishes a new post. POST /posts
func (c *Client) Post(ctx context.Context, request PostRequest) (Post, error) {
	var post Post
	err := c.do(ctx, http.MethodPost, "/posts", request, &post)
	return post, err
}

// Browse lists posts. GET /posts?sort=<sort>&limit=<n>
func (c *Client) Browse(ctx context.Context, sort string, limit int) ([]Post, error) {
	query := url.Values{}
	if sort != "" {
		query.Set("sort", sort)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var envelope struct {
		Posts []Post `json:"posts"`
	}
	if err := c.do(ctx, http.MethodGet, "/posts?"+query.Encode(), nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Posts, nil
}

// Comment answers a post. POST /posts/{id}/comments
func (c *Client) Comment(ctx context.Context, postID, content string) (Comment, error) {
	var comment Comment
	path := fmt.Sprintf("/posts/%s/comments", url.PathEscape(postID))
	err := c.do(ctx, http.MethodPost, path, map[string]string{"content": content}, &comment)
	return comment, err
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if !c.Configured() {
		return errors.ErrSourceUnavailable
	}
	var body io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(encoded)
	}
	request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+c.token)
	request.Header.Set("Accept", "application/json")
	if in != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.client.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if response.StatusCode < 200 || response.StatusCode > 299 {
		return fmt.Errorf("%w: %s %s returned %d", errors.ErrUnexpectedStatus, method, path, response.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}
