package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/BenjiKandl/apertif/internal/domain"
)

// maxDocumentSize caps the documents sent to and read from the remote
const maxDocumentSize = 1 << 20

// JSONBlobEventStore implements EventStore against a remote JSON document
// service: POST base creates (id from Location), GET/PUT base/<id>.
// Every call is a single attempt.
type JSONBlobEventStore struct {
	baseURL string
	client  *http.Client
}

// NewJSONBlobEventStore creates a store rooted at baseURL. A zero timeout
// waits for the remote as long as the request context allows.
func NewJSONBlobEventStore(baseURL string, timeout time.Duration) *JSONBlobEventStore {
	return NewJSONBlobEventStoreWithClient(baseURL, &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
}

// NewJSONBlobEventStoreWithClient creates a store using the given client
func NewJSONBlobEventStoreWithClient(baseURL string, client *http.Client) *JSONBlobEventStore {
	return &JSONBlobEventStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

func (s *JSONBlobEventStore) documentURL(id string) string {
	return s.baseURL + "/" + url.PathEscape(id)
}

// Create posts the document and reads the id from the Location header
func (s *JSONBlobEventStore) Create(ctx context.Context, doc *domain.Document) (string, error) {
	body, err := domain.NewDocument(doc.Event).Marshal()
	if err == nil {
		err = checkDocumentSize(body)
	}
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}

	resp, err := s.do(ctx, http.MethodPost, s.baseURL, body)
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}
	defer drain(resp)

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", domain.NewStorageError("create event", unexpectedStatus(resp))
	}

	id, err := idFromLocation(resp.Header.Get("Location"))
	if err != nil {
		return "", domain.NewStorageError("create event", err)
	}
	return id, nil
}

// Load fetches and decodes the document
func (s *JSONBlobEventStore) Load(ctx context.Context, id string) (*domain.Document, error) {
	resp, err := s.do(ctx, http.MethodGet, s.documentURL(id), nil)
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrEventNotFound
	case resp.StatusCode != http.StatusOK:
		return nil, domain.NewStorageError("load event", unexpectedStatus(resp))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err == nil {
		err = checkDocumentSize(data)
	}
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}
	doc, err := domain.UnmarshalDocument(data)
	if err != nil {
		return nil, domain.NewStorageError("load event", err)
	}
	return doc, nil
}

// Replace puts the whole document. A document too large to load back is
// rejected before anything is sent.
func (s *JSONBlobEventStore) Replace(ctx context.Context, id string, doc *domain.Document) error {
	body, err := doc.Marshal()
	if err == nil {
		err = checkDocumentSize(body)
	}
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}

	resp, err := s.do(ctx, http.MethodPut, s.documentURL(id), body)
	if err != nil {
		return domain.NewStorageError("replace event", err)
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrEventNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.NewStorageError("replace event", unexpectedStatus(resp))
	}
	return nil
}

// HealthCheck reports whether the remote answers at all. Any status below 500
// counts: the base URL itself is not a document.
func (s *JSONBlobEventStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := s.do(ctx, http.MethodGet, s.baseURL, nil)
	if err != nil {
		return err
	}
	defer drain(resp)

	if resp.StatusCode >= http.StatusInternalServerError {
		return unexpectedStatus(resp)
	}
	return nil
}

func checkDocumentSize(body []byte) error {
	if len(body) > maxDocumentSize {
		return fmt.Errorf("%w: %d bytes, limit %d", errDocumentTooLarge, len(body), maxDocumentSize)
	}
	return nil
}

func (s *JSONBlobEventStore) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.client.Do(req)
}

// idFromLocation takes the last path segment of the Location header
func idFromLocation(location string) (string, error) {
	if location == "" {
		return "", fmt.Errorf("response has no Location header")
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid Location header %q: %w", location, err)
	}
	id := path.Base(strings.TrimRight(u.Path, "/"))
	if id == "" || id == "." || id == "/" {
		return "", fmt.Errorf("no id in Location header %q", location)
	}
	if err := ValidateEventID(id); err != nil {
		return "", fmt.Errorf("bad id in Location header %q", location)
	}
	return id, nil
}

func unexpectedStatus(resp *http.Response) error {
	return fmt.Errorf("unexpected status %d from %s %s", resp.StatusCode, resp.Request.Method, resp.Request.URL.Redacted())
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDocumentSize))
	resp.Body.Close()
}
