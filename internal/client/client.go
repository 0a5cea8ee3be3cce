package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}

	return fmt.Sprintf("HTTP %d %s: %s", e.Status, e.Code, e.Message)
}

// IsAuthFailure reports whether err is a 401 or 403 from the server.
func IsAuthFailure(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}

	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Client calls the dealership API on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
	store      Store
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithStore persists every session transition and restores the saved one.
func WithStore(store Store) Option {
	return func(c *Client) { c.store = store }
}

// New builds a client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.session = NewSession(c.persist)
	if c.store != nil {
		state, err := c.store.Load()
		if err != nil {
			return nil, err
		}
		c.session.Restore(state)
	}

	return c, nil
}

// Session exposes the credentials held by the client.
func (c *Client) Session() *Session {
	return c.session
}

func (c *Client) persist(state State) {
	if c.store == nil {
		return
	}
	if err := c.store.Save(state); err != nil {
		c.logger.Warn("Failed to persist session", slog.Any("error", err))
	}
}

// request is a replayable API call.
type request struct {
	method      string
	path        string
	body        []byte
	contentType string
	auth        bool
}

func jsonRequest(method, path string, payload any, auth bool) (*request, error) {
	req := &request{method: method, path: path, auth: auth}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode request")
		}
		req.body = body
		req.contentType = "application/json"
	}

	return req, nil
}

// do sends req and, on 401/403, refreshes the session once and retries once.
// If the refresh fails the session is cleared and the original failure is
// returned. A successful response body is returned undecoded.
func (c *Client) do(ctx context.Context, req *request) ([]byte, error) {
	sentToken := ""
	if req.auth {
		sentToken = c.session.AccessToken()
	}

	body, err := c.send(ctx, req, sentToken)
	if err == nil || !req.auth || !IsAuthFailure(err) {
		return body, err
	}

	if refreshErr := c.session.Refresh(ctx, sentToken, c.refresh); refreshErr != nil {
		c.logger.Debug("Session refresh failed", slog.String("path", req.path), slog.Any("error", refreshErr))

		return nil, err
	}

	return c.send(ctx, req, c.session.AccessToken())
}

func (c *Client) send(ctx context.Context, req *request, token string) ([]byte, error) {
	var reader io.Reader
	if req.body != nil {
		reader = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build request")
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.method, req.path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeAPIError(resp.StatusCode, raw)
	}

	return raw, nil
}

// refresh calls POST /users/refresh; it never goes through do.
func (c *Client) refresh(ctx context.Context, refreshToken string) (string, string, error) {
	req, err := jsonRequest(http.MethodPost, "/users/refresh", map[string]string{"refreshToken": refreshToken}, false)
	if err != nil {
		return "", "", err
	}

	raw, err := c.send(ctx, req, "")
	if err != nil {
		return "", "", err
	}

	var pair tokenPair
	if err := decodeData(raw, &pair); err != nil {
		return "", "", err
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return "", "", errors.New("refresh response is missing tokens")
	}

	return pair.AccessToken, pair.RefreshToken, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{Status: status}

	var env envelope
	if json.Unmarshal(raw, &env) == nil && env.Error != nil {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.RequestID = env.Meta.RequestID
	}

	return apiErr
}

func decodeData(raw []byte, out any) error {
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return errors.Wrap(err, "failed to decode response")
	}

	return errors.Wrap(json.Unmarshal(env.Data, out), "failed to decode response data")
}

func (c *Client) call(ctx context.Context, method, path string, payload, out any) error {
	req, err := jsonRequest(method, path, payload, true)
	if err != nil {
		return err
	}

	raw, err := c.do(ctx, req)
	if err != nil {
		return err
	}

	return decodeData(raw, out)
}

// --- API ---

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user,omitempty"`
}

// Car mirrors the server's car resource.
type Car struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Year      int       `json:"year"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ImageInfo describes a stored image.
type ImageInfo struct {
	ID        string    `json:"id"`
	CarID     string    `json:"car_id"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// File is one upload.
type File struct {
	Name string
	Data []byte
}

// Login exchanges credentials for a token pair and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	req, err := jsonRequest(http.MethodPost, "/users/login", map[string]string{"email": email, "password": password}, false)
	if err != nil {
		return nil, err
	}

	raw, err := c.send(ctx, req, "")
	if err != nil {
		return nil, err
	}

	var pair tokenPair
	if err := decodeData(raw, &pair); err != nil {
		return nil, err
	}

	c.session.Login(pair.User, pair.AccessToken, pair.RefreshToken)

	return pair.User, nil
}

// Logout drops the local session. Tokens stay valid server-side until they expire.
func (c *Client) Logout() {
	c.session.Logout()
}

func (c *Client) Register(ctx context.Context, name, email, password string) error {
	req, err := jsonRequest(http.MethodPost, "/users", map[string]string{"name": name, "email": email, "password": password}, false)
	if err != nil {
		return err
	}

	_, err = c.send(ctx, req, "")

	return err
}

func (c *Client) ListCars(ctx context.Context) ([]Car, error) {
	var cars []Car

	return cars, c.call(ctx, http.MethodGet, "/cars", nil, &cars)
}

func (c *Client) GetCar(ctx context.Context, id string) (*Car, error) {
	var car Car
	if err := c.call(ctx, http.MethodGet, "/cars/"+id, nil, &car); err != nil {
		return nil, err
	}

	return &car, nil
}

func (c *Client) ListImages(ctx context.Context, carID string) ([]ImageInfo, error) {
	var images []ImageInfo

	return images, c.call(ctx, http.MethodGet, "/cars/"+carID+"/images", nil, &images)
}

func (c *Client) DeleteImage(ctx context.Context, carID, imageID string) error {
	return c.call(ctx, http.MethodDelete, "/cars/"+carID+"/images/"+imageID, nil, nil)
}

// UploadImages sends all files in one multipart request; the server stores all or none.
func (c *Client) UploadImages(ctx context.Context, carID string, files []File) ([]ImageInfo, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for _, file := range files {
		part, err := writer.CreateFormFile("images", file.Name)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build multipart body")
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, errors.Wrap(err, "failed to build multipart body")
		}
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "failed to build multipart body")
	}

	raw, err := c.do(ctx, &request{
		method:      http.MethodPost,
		path:        "/cars/" + carID + "/images",
		body:        buf.Bytes(),
		contentType: writer.FormDataContentType(),
		auth:        true,
	})
	if err != nil {
		return nil, err
	}

	var images []ImageInfo

	return images, decodeData(raw, &images)
}
