// Package client submits value trees to the school API as multipart forms.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"schoolku_backend/internals/helpers/formdata"
)

var ErrNoBaseURL = errors.New("client: base URL is empty")

// Client talks to one API instance. Token, when set, is sent as a bearer.
type Client struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), Token: token, Timeout: 30 * time.Second}
}

// Response is the API envelope. Data is left raw for the caller to decode.
type Response struct {
	Status     int                 `json:"-"`
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	ErrorCode  string              `json:"error_code,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Data       json.RawMessage     `json:"data,omitempty"`
	Pagination json.RawMessage     `json:"pagination,omitempty"`
}

// Decode unmarshals Data into dst.
func (r *Response) Decode(dst any) error {
	if len(r.Data) == 0 {
		return errors.New("client: response has no data")
	}
	return sonic.Unmarshal(r.Data, dst)
}

// APIError is returned for non-2xx answers; the envelope stays available.
type APIError struct {
	Response *Response
}

func (e *APIError) Error() string {
	r := e.Response
	msg := r.Message
	if msg == "" {
		msg = fiber.ErrInternalServerError.Message
	}
	if len(r.Errors) > 0 {
		fields := make([]string, 0, len(r.Errors))
		for k, v := range r.Errors {
			fields = append(fields, k+": "+strings.Join(v, ", "))
		}
		msg += " (" + strings.Join(fields, "; ") + ")"
	}
	return fmt.Sprintf("status %d: %s", r.Status, msg)
}

// SubmitForm flattens tree, encodes it and sends it as multipart/form-data.
func (c *Client) SubmitForm(ctx context.Context, method, path string, tree any, opt *formdata.EncodeOptions) (*Response, error) {
	payload := formdata.Encode(formdata.Flatten(tree), opt)
	body, contentType, err := payload.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encode form: %w", err)
	}

	a, err := c.agent(method, path)
	if err != nil {
		return nil, err
	}
	a.ContentType(contentType)
	a.Body(body)
	return c.send(ctx, a)
}

// SubmitJSON sends body encoded with sonic.
func (c *Client) SubmitJSON(ctx context.Context, method, path string, body any) (*Response, error) {
	a, err := c.agent(method, path)
	if err != nil {
		return nil, err
	}
	a.JSONEncoder(sonic.Marshal)
	a.JSON(body)
	return c.send(ctx, a)
}

// ValidateStep asks the server to check one section of a multi-step form.
func (c *Client) ValidateStep(ctx context.Context, resource, step string, tree any) (*Response, error) {
	path := "/api/a/" + strings.Trim(resource, "/") + "/validate?step=" + url.QueryEscape(step)
	return c.SubmitForm(ctx, fiber.MethodPost, path, tree, nil)
}

// Login exchanges credentials for an access token and keeps it on c.
func (c *Client) Login(ctx context.Context, email, password string) error {
	res, err := c.SubmitJSON(ctx, fiber.MethodPost, "/api/auth/login", fiber.Map{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	var session struct {
		AccessToken string `json:"access_token"`
	}
	if err := res.Decode(&session); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if session.AccessToken == "" {
		return errors.New("login: no access token in response")
	}
	c.Token = session.AccessToken
	return nil
}

func (c *Client) agent(method, path string) (*fiber.Agent, error) {
	if c.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(strings.ToUpper(method))
	req.SetRequestURI(c.BaseURL + "/" + strings.TrimLeft(path, "/"))
	if c.Token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	return a, nil
}

func (c *Client) send(ctx context.Context, a *fiber.Agent) (*Response, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	a.Timeout(timeout)
	if err := a.Parse(); err != nil {
		return nil, err
	}

	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return nil, errs[0]
	}
	res := &Response{Status: code}
	if len(body) > 0 {
		if err := sonic.Unmarshal(body, res); err != nil {
			return nil, fmt.Errorf("status %d: decode body: %w", code, err)
		}
	}
	if code < 200 || code >= 300 {
		return res, &APIError{Response: res}
	}
	return res, nil
}
