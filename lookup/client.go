// Package lookup resolves product codes to preview images and size hints.
package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pirani-measure/calibration"
	"pirani-measure/log"
)

// DefaultBaseURL is the production order service.
const DefaultBaseURL = "https://pir-prod.pirani.life"

var (
	// ErrEmptyCode is returned when the code is blank after trimming.
	ErrEmptyCode = errors.New("please enter a code")
	// ErrNotFound is returned when the service has no record for the code.
	ErrNotFound = errors.New("no data found")
)

// Record is the product data returned by the order service.
type Record struct {
	Title              string `json:"title"`
	VariantTitle       string `json:"variantTitle"`
	SKU                string `json:"sku"`
	CustomizationType  string `json:"customizationType"`
	CustomizationValue string `json:"customizationValue"`
	CustomizationFont  string `json:"customizationFont"`
	PreviewURL         string `json:"previewUrl"`
	SVGURL             string `json:"svgUrl"`
	Color              string `json:"color"`
	Quantity           int    `json:"quantity"`
	Barcode            string `json:"barcode"`
	Created            string `json:"created"`
}

// ImageURL is the image the overlay is drawn over.
func (r *Record) ImageURL() string {
	return r.PreviewURL
}

// SizeHint returns the product size named in the record, if any.
func (r *Record) SizeHint() (calibration.SizeKey, bool) {
	for _, s := range []string{r.VariantTitle, r.Title, r.SKU} {
		if key, err := calibration.ParseSizeKey(s); err == nil {
			return key, true
		}
	}
	return "", false
}

// Client talks to the order service.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	// Now is used to build the date segment of the request path.
	Now func() time.Time
}

// NewClient returns a client for baseURL with the given request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Now:        time.Now,
	}
}

// DateCode formats t as YYMMDD.
func DateCode(t time.Time) string {
	return t.Format("060102")
}

// Fetch resolves code to a Record. The code is trimmed first.
func (c *Client) Fetch(ctx context.Context, code string) (*Record, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrEmptyCode
	}

	endpoint := fmt.Sprintf("%s/co/%s/%s", c.BaseURL, DateCode(c.now()), code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	log.InfoLog.Printf("looking up code %s", code)
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch data: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &rec, nil
}

var unsafeNameParts = strings.NewReplacer("/", "-", "\\", "-", "..", "-")

// fileNamePart turns a server-supplied value into something that cannot
// leave the download directory or name a subdirectory.
func fileNamePart(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
	return unsafeNameParts.Replace(s)
}

// SVGFileName is the name DownloadSVG saves rec under.
func SVGFileName(rec *Record) string {
	return fmt.Sprintf("pirani-%s-%s.svg", fileNamePart(rec.SKU), fileNamePart(rec.CustomizationValue))
}

// DownloadSVG saves the record's SVG artwork into dir and returns its path.
func (c *Client) DownloadSVG(ctx context.Context, rec *Record, dir string) (string, error) {
	if rec == nil || rec.SVGURL == "" {
		return "", fmt.Errorf("record has no svg")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.SVGURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download svg: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("failed to download svg: %d", resp.StatusCode)
	}

	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, SVGFileName(rec))
	if filepath.Dir(path) != filepath.Clean(dir) {
		return "", fmt.Errorf("refusing to write %s outside %s", path, dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func (c *Client) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
