package users

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

const (
	restPath         = "/rest/v1/users"
	mediaObject      = "application/vnd.pgrst.object+json"
	mediaJSON        = "application/json"
	preferReturnRows = "return=representation"
)

// PostgRESTRepository talks to the managed backend's REST data API.
type PostgRESTRepository struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewPostgRESTRepository(baseURL, apiKey string, httpClient *http.Client) *PostgRESTRepository {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PostgRESTRepository{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// newUserRow is the insert payload; id and timestamps come from the backend.
type newUserRow struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

func (r *PostgRESTRepository) GetByUsername(ctx context.Context, username string) (*User, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("username", "eq."+username)

	var u User
	if err := r.do(ctx, http.MethodGet, q, nil, mediaObject, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *PostgRESTRepository) Create(ctx context.Context, user *User) (*User, error) {
	row := newUserRow{
		Username: user.Username,
		Password: user.Password,
		Email:    user.Email,
		Role:     user.Role,
		IsActive: user.IsActive,
	}

	var created User
	if err := r.do(ctx, http.MethodPost, nil, row, mediaObject, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *PostgRESTRepository) Update(ctx context.Context, id string, patch Patch) (*User, error) {
	q := url.Values{}
	q.Set("id", "eq."+id)

	var updated User
	if err := r.do(ctx, http.MethodPatch, q, patch, mediaObject, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostgRESTRepository) Probe(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")

	var rows []json.RawMessage
	return r.do(ctx, http.MethodGet, q, nil, mediaJSON, &rows)
}

func (r *PostgRESTRepository) do(ctx context.Context, method string, q url.Values, body any, accept string, out any) error {
	endpoint := r.baseURL + restPath
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Accept", accept)
	if body != nil {
		req.Header.Set("Content-Type", mediaJSON)
		req.Header.Set("Prefer", preferReturnRows)
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeRemoteError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func decodeRemoteError(status int, body []byte) error {
	var re restError
	if err := json.Unmarshal(body, &re); err != nil || (re.Code == "" && re.Message == "") {
		return &RemoteError{Status: status, Message: strings.TrimSpace(string(body))}
	}

	remote := &RemoteError{Status: status, Code: re.Code, Message: re.Message}
	if normalized := errorForCode(re.Code); normalized != nil {
		return fmt.Errorf("%w: %w", normalized, remote)
	}
	return remote
}

// KeyRole reads the role claim of a backend API key without checking its
// signature. Keys that are not JWTs yield an error.
func KeyRole(key string) (string, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return "", fmt.Errorf("parse api key: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return "", errors.New("api key has no role claim")
	}
	return role, nil
}
