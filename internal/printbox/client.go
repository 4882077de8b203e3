package printbox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

// StatusSource is the subset of the client used by the background poller.
// Implemented by *Client; fakes implement it in tests.
type StatusSource interface {
	PrinterStatus(ctx context.Context) (*PrinterStatus, error)
}

var _ StatusSource = (*Client)(nil)

// Client talks to the printbox HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	bust      atomic.Int64
}

const (
	defaultAPIBind   = "127.0.0.1:5000"
	defaultUserAgent = "printdeck/0.1"
	requestTimeout   = 5 * time.Second

	// Bounds the daemon enforces on a bluetooth scan duration.
	MinScanSeconds = 5
	MaxScanSeconds = 30
)

// APIError carries the server-reported explanation of a rejected request.
// Its text is shown verbatim next to the control that triggered it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) != "" {
		return e.Message
	}
	return fmt.Sprintf("api returned status %d", e.StatusCode)
}

// NewClient builds a Client for the given host:port or URL.
func NewClient(apiBind string) (*Client, error) {
	base, err := parseBaseURL(apiBind)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL:   base,
		http:      &http.Client{},
		userAgent: defaultUserAgent,
	}
	// Seed so cache-bust values survive process restarts.
	c.bust.Store(time.Now().UnixNano())
	return c, nil
}

// FetchConfig retrieves the daemon configuration snapshot.
func (c *Client) FetchConfig(ctx context.Context) (*Config, error) {
	var payload Config
	if err := c.getJSON(ctx, "/api/config", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UpdateConfig applies a partial configuration update. Callers must treat
// the cached config as stale afterwards and re-fetch before displaying it.
func (c *Client) UpdateConfig(ctx context.Context, update ConfigUpdate) error {
	return c.doJSON(ctx, http.MethodPost, &url.URL{Path: "/api/config"}, update, nil, requestTimeout)
}

// ListImages retrieves the full image inventory.
func (c *Client) ListImages(ctx context.Context) ([]Image, error) {
	var payload []Image
	if err := c.getJSON(ctx, "/api/images", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Upload sends a local file to the daemon as a multipart form.
func (c *Client) Upload(ctx context.Context, path string) (*Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish upload form: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: "/api/upload"})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), &body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}
	var payload Image
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &payload, nil
}

const uploadTimeout = 30 * time.Second

// FetchPreview retrieves the processed preview bytes for an image. Every
// call carries a strictly increasing cache-bust parameter so a stale cached
// render is never served after a mutation.
func (c *Client) FetchPreview(ctx context.Context, imageID string) ([]byte, error) {
	if imageID == "" {
		return nil, fmt.Errorf("image id required")
	}
	values := url.Values{}
	values.Set("t", strconv.FormatInt(c.bust.Add(1), 10))
	rel := &url.URL{Path: "/api/images/" + imageID + "/preview", RawQuery: values.Encode()}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read preview: %w", err)
	}
	return data, nil
}

// ProcessImage applies processing settings to one image and returns the
// updated metadata.
func (c *Client) ProcessImage(ctx context.Context, imageID string, req ProcessRequest) (*Image, error) {
	if imageID == "" {
		return nil, fmt.Errorf("image id required")
	}
	var payload Image
	rel := &url.URL{Path: "/api/images/" + imageID + "/process"}
	if err := c.doJSON(ctx, http.MethodPost, rel, req, &payload, requestTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// PrintImage sends one image to the printer.
func (c *Client) PrintImage(ctx context.Context, imageID string) (*Result, error) {
	if imageID == "" {
		return nil, fmt.Errorf("image id required")
	}
	var payload Result
	rel := &url.URL{Path: "/api/images/" + imageID + "/print"}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &payload, printTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

const printTimeout = 30 * time.Second

// DeleteImage removes an image and its processed artifacts.
func (c *Client) DeleteImage(ctx context.Context, imageID string) error {
	if imageID == "" {
		return fmt.Errorf("image id required")
	}
	rel := &url.URL{Path: "/api/images/" + imageID}
	return c.doJSON(ctx, http.MethodDelete, rel, nil, nil, requestTimeout)
}

// PrinterStatus retrieves printer connectivity state.
func (c *Client) PrinterStatus(ctx context.Context) (*PrinterStatus, error) {
	var payload PrinterStatus
	if err := c.getJSON(ctx, "/api/printer/status", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SwitchConnection changes the connection type (usb or bluetooth). The
// daemon disconnects, persists the type, and reconnects.
func (c *Client) SwitchConnection(ctx context.Context, connType string) (*Result, error) {
	var payload Result
	body := map[string]string{"type": connType}
	rel := &url.URL{Path: "/api/printer/switch"}
	if err := c.doJSON(ctx, http.MethodPost, rel, body, &payload, connectTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SwitchProtocol changes the wire protocol (escpos or startsp). The server
// is authoritative; callers re-fetch config to confirm the accepted value.
func (c *Client) SwitchProtocol(ctx context.Context, protocol string) (*Result, error) {
	var payload Result
	body := map[string]string{"protocol": protocol}
	rel := &url.URL{Path: "/api/printer/protocol"}
	if err := c.doJSON(ctx, http.MethodPost, rel, body, &payload, requestTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// Reconnect tears down and re-establishes the printer connection using the
// persisted configuration.
func (c *Client) Reconnect(ctx context.Context) (*Result, error) {
	var payload Result
	rel := &url.URL{Path: "/api/printer/reconnect"}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &payload, connectTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

const connectTimeout = 20 * time.Second

// TestPrint asks the printer to emit its test pattern.
func (c *Client) TestPrint(ctx context.Context) (*Result, error) {
	var payload Result
	rel := &url.URL{Path: "/api/printer/test"}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &payload, printTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ScanBluetooth runs a bounded-duration device discovery. The timeout is
// clamped to the daemon's accepted range before sending.
func (c *Client) ScanBluetooth(ctx context.Context, timeoutSeconds int) (*ScanResult, error) {
	if timeoutSeconds < MinScanSeconds {
		timeoutSeconds = MinScanSeconds
	}
	if timeoutSeconds > MaxScanSeconds {
		timeoutSeconds = MaxScanSeconds
	}
	values := url.Values{}
	values.Set("timeout", strconv.Itoa(timeoutSeconds))
	rel := &url.URL{Path: "/api/printer/bluetooth/scan", RawQuery: values.Encode()}

	var payload ScanResult
	grace := time.Duration(timeoutSeconds)*time.Second + requestTimeout
	if err := c.doJSON(ctx, http.MethodGet, rel, nil, &payload, grace); err != nil {
		return nil, err
	}
	return &payload, nil
}

// ConnectBluetooth pairs and connects to a printer by MAC address.
func (c *Client) ConnectBluetooth(ctx context.Context, mac string) (*Result, error) {
	if strings.TrimSpace(mac) == "" {
		return nil, fmt.Errorf("mac address required")
	}
	var payload Result
	body := map[string]string{"mac": mac}
	rel := &url.URL{Path: "/api/printer/bluetooth/connect"}
	if err := c.doJSON(ctx, http.MethodPost, rel, body, &payload, connectTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// DisconnectBluetooth drops the current bluetooth connection.
func (c *Client) DisconnectBluetooth(ctx context.Context) (*Result, error) {
	var payload Result
	rel := &url.URL{Path: "/api/printer/bluetooth/disconnect"}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &payload, requestTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// UnpairBluetooth removes the configured device pairing at OS level and
// clears the persisted MAC. An empty body asks the daemon to use the
// configured device.
func (c *Client) UnpairBluetooth(ctx context.Context) (*Result, error) {
	var payload Result
	rel := &url.URL{Path: "/api/printer/bluetooth/unpair"}
	if err := c.doJSON(ctx, http.MethodPost, rel, map[string]string{}, &payload, connectTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

// GPIOStatus retrieves physical button availability and pin state.
func (c *Client) GPIOStatus(ctx context.Context) (*GPIOStatus, error) {
	var payload GPIOStatus
	if err := c.getJSON(ctx, "/api/gpio/status", &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

// SimulateButton fires a button press without hardware.
func (c *Client) SimulateButton(ctx context.Context, button int) (*Result, error) {
	if button < 1 || button > len(ButtonIDs) {
		return nil, fmt.Errorf("invalid button number %d", button)
	}
	var payload Result
	rel := &url.URL{Path: "/api/gpio/simulate/" + strconv.Itoa(button)}
	if err := c.doJSON(ctx, http.MethodPost, rel, nil, &payload, printTimeout); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	return c.doJSON(ctx, http.MethodGet, &url.URL{Path: path}, nil, dest, requestTimeout)
}

func (c *Client) doJSON(ctx context.Context, method string, rel *url.URL, body, dest any, timeout time.Duration) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if dest == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeAPIError extracts the server-supplied error text from a failed
// response so callers can surface it instead of a generic status message.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}

func parseBaseURL(apiBind string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiBind)
	if trimmed == "" {
		trimmed = defaultAPIBind
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server address %q: %w", apiBind, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
