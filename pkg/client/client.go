// Package client provides a typed HTTP client for the InteractiveQ API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/RohanLambture/InteractiveQ/internal/domain"
)

// APIError is the decoded error body returned by the server.
type APIError struct {
	StatusCode int
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to an InteractiveQ server. Methods that require
// authentication take the bearer token explicitly so a single client
// can serve multiple identities.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AuthResponse is returned by Signup and Signin.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Signup registers a new account.
func (c *Client) Signup(ctx context.Context, fullName, email, password string) (*AuthResponse, error) {
	body := map[string]any{
		"fullName":      fullName,
		"email":         email,
		"password":      password,
		"termsAccepted": true,
	}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signup", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Signin exchanges credentials for a token.
func (c *Client) Signin(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]any{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/signin", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRoomRequest carries the optional room creation parameters.
type CreateRoomRequest struct {
	Name            string                    `json:"name"`
	Settings        *domain.RoomSettingsPatch `json:"settings,omitempty"`
	DurationMinutes int                       `json:"duration,omitempty"`
}

// CreateRoom creates a room owned by the token's user.
func (c *Client) CreateRoom(ctx context.Context, token string, req CreateRoomRequest) (*domain.Room, error) {
	var out domain.Room
	if err := c.do(ctx, http.MethodPost, "/api/v1/rooms", token, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// JoinRoom resolves a 6-character room code to its room. No token required.
func (c *Client) JoinRoom(ctx context.Context, code string) (*domain.Room, error) {
	body := map[string]any{"code": code}
	var out domain.Room
	if err := c.do(ctx, http.MethodPost, "/api/v1/rooms/join", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRoom fetches a room with its questions and polls.
func (c *Client) GetRoom(ctx context.Context, token, roomID string) (*domain.RoomSnapshot, error) {
	var out domain.RoomSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms/"+roomID, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetUpdates fetches the current snapshot of a room for polling clients.
func (c *Client) GetUpdates(ctx context.Context, token, roomID string) (*domain.RoomSnapshot, error) {
	var out domain.RoomSnapshot
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms/"+roomID+"/updates", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MyRooms lists rooms owned by the token's user.
func (c *Client) MyRooms(ctx context.Context, token string) ([]*domain.Room, error) {
	var out []*domain.Room
	if err := c.do(ctx, http.MethodGet, "/api/v1/rooms/my-rooms", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateRoomSettings merges a settings patch into the room.
func (c *Client) UpdateRoomSettings(ctx context.Context, token, roomID string, patch domain.RoomSettingsPatch) (*domain.Room, error) {
	body := map[string]any{"settings": patch}
	var out domain.Room
	if err := c.do(ctx, http.MethodPatch, "/api/v1/rooms/"+roomID+"/settings", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndRoom ends the room session.
func (c *Client) EndRoom(ctx context.Context, token, roomID string) (*domain.Room, error) {
	var out struct {
		Message string       `json:"message"`
		Room    *domain.Room `json:"room"`
	}
	if err := c.do(ctx, http.MethodPatch, "/api/v1/rooms/"+roomID+"/end", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Room, nil
}

// SubmitQuestion posts a question into a room.
func (c *Client) SubmitQuestion(ctx context.Context, token, roomID, content string, anonymous bool) (*domain.Question, error) {
	body := map[string]any{
		"roomId":      roomID,
		"content":     content,
		"isAnonymous": anonymous,
	}
	var out domain.Question
	if err := c.do(ctx, http.MethodPost, "/api/v1/questions", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RoomQuestions lists a room's questions, newest first.
func (c *Client) RoomQuestions(ctx context.Context, roomID string) ([]*domain.Question, error) {
	var out []*domain.Question
	if err := c.do(ctx, http.MethodGet, "/api/v1/questions/room/"+roomID, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VoteQuestion toggles the caller's upvote on a question.
func (c *Client) VoteQuestion(ctx context.Context, token, questionID string) (*domain.Question, error) {
	var out domain.Question
	if err := c.do(ctx, http.MethodPost, "/api/v1/questions/"+questionID+"/vote", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetQuestionStatus moderates a question (owner only).
func (c *Client) SetQuestionStatus(ctx context.Context, token, questionID string, status domain.QuestionStatus) (*domain.Question, error) {
	body := map[string]any{"status": status}
	var out domain.Question
	if err := c.do(ctx, http.MethodPatch, "/api/v1/questions/"+questionID+"/status", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnswerQuestion appends an answer to a question.
func (c *Client) AnswerQuestion(ctx context.Context, token, questionID, text, author string) (*domain.Question, error) {
	body := map[string]any{"text": text, "author": author}
	var out domain.Question
	if err := c.do(ctx, http.MethodPost, "/api/v1/questions/"+questionID+"/answers", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteQuestion removes a question (owner only).
func (c *Client) DeleteQuestion(ctx context.Context, token, questionID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/questions/"+questionID, token, nil, nil)
}

// CreatePoll creates a poll in a room (owner only).
func (c *Client) CreatePoll(ctx context.Context, token, roomID, question string, options []string) (*domain.Poll, error) {
	body := map[string]any{
		"roomId":   roomID,
		"question": question,
		"options":  options,
	}
	var out domain.Poll
	if err := c.do(ctx, http.MethodPost, "/api/v1/polls", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RoomPolls lists a room's polls, newest first.
func (c *Client) RoomPolls(ctx context.Context, roomID string) ([]*domain.Poll, error) {
	var out []*domain.Poll
	if err := c.do(ctx, http.MethodGet, "/api/v1/polls/room/"+roomID, "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VotePoll casts the caller's single vote for an option.
func (c *Client) VotePoll(ctx context.Context, token, pollID string, optionIndex int, anonymous bool) (*domain.Poll, error) {
	body := map[string]any{"optionIndex": optionIndex, "anonymous": anonymous}
	var out domain.Poll
	if err := c.do(ctx, http.MethodPost, "/api/v1/polls/"+pollID+"/vote", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EndPoll ends a poll (owner only).
func (c *Client) EndPoll(ctx context.Context, token, pollID string) (*domain.Poll, error) {
	var out domain.Poll
	if err := c.do(ctx, http.MethodPatch, "/api/v1/polls/"+pollID+"/end", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var decoded struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &decoded) == nil && decoded.Message != "" {
			apiErr.Message = decoded.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
