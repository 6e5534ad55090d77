package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// RecordStore is the HTTP client for the hosted table store (NocoDB).
// All persistence goes through it: collections are plain REST resources
// (GET/POST /{tabla}, PATCH/DELETE /{tabla}/{id}) and every call runs through
// a circuit breaker so a table-store outage fails fast instead of piling up
// blocked requests (ADR-001 pattern).
type RecordStore struct {
	baseURL    string
	token      string
	httpClient *http.Client
	cb         *CircuitBreaker
}

// ErrNoEncontrado is returned when the store answers 404 for a record.
var ErrNoEncontrado = errors.New("registro no encontrado")

func NewRecordStore(baseURL, token string) *RecordStore {
	return &RecordStore{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cb:         NewCircuitBreaker(DefaultCBConfig()),
	}
}

// ListQuery narrows a List call. Where uses the store's filter syntax,
// e.g. "(ProductoId,eq,42)". Zero values are omitted from the request.
type ListQuery struct {
	Where  string
	Sort   string // e.g. "-FechaDesde"
	Limit  int
	Offset int
}

type listEnvelope struct {
	List     json.RawMessage `json:"list"`
	PageInfo struct {
		TotalRows int64 `json:"totalRows"`
	} `json:"pageInfo"`
}

// List fetches records from tabla into out (a pointer to a slice) and returns
// the total row count reported by the store.
func (s *RecordStore) List(ctx context.Context, tabla string, q ListQuery, out interface{}) (int64, error) {
	params := url.Values{}
	if q.Where != "" {
		params.Set("where", q.Where)
	}
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}

	path := "/" + tabla
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var env listEnvelope
	if err := s.do(ctx, http.MethodGet, path, nil, &env); err != nil {
		return 0, err
	}
	if err := json.Unmarshal(env.List, out); err != nil {
		return 0, fmt.Errorf("recordstore: decode %s list: %w", tabla, err)
	}
	return env.PageInfo.TotalRows, nil
}

// Get fetches a single record by id.
func (s *RecordStore) Get(ctx context.Context, tabla, id string, out interface{}) error {
	return s.do(ctx, http.MethodGet, "/"+tabla+"/"+url.PathEscape(id), nil, out)
}

// Create inserts a record; the store assigns the id. The created record
// (including its id) is decoded into out when out is non-nil.
func (s *RecordStore) Create(ctx context.Context, tabla string, record, out interface{}) error {
	return s.do(ctx, http.MethodPost, "/"+tabla, record, out)
}

// Update patches the given fields of one record. A single Update call is the
// atomic unit the engine relies on when it must flip several fields together
// (e.g. Estado + PdfRef on the borrador → enviado transition).
func (s *RecordStore) Update(ctx context.Context, tabla, id string, patch interface{}) error {
	return s.do(ctx, http.MethodPatch, "/"+tabla+"/"+url.PathEscape(id), patch, nil)
}

// Delete removes one record.
func (s *RecordStore) Delete(ctx context.Context, tabla, id string) error {
	return s.do(ctx, http.MethodDelete, "/"+tabla+"/"+url.PathEscape(id), nil, nil)
}

// Ping checks store reachability (used by /health). It does not go through
// the breaker so health reporting keeps working while the breaker is open.
func (s *RecordStore) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("recordstore: health returned %d", resp.StatusCode)
	}
	return nil
}

// EstadoCB exposes the breaker state for the health endpoint.
func (s *RecordStore) EstadoCB() CBState { return s.cb.State() }

func (s *RecordStore) do(ctx context.Context, method, path string, body, out interface{}) error {
	// appErr holds errors that are the store answering correctly (404, client
	// mistakes); those must not count against the circuit breaker.
	var appErr error

	err := s.cb.Execute(func() error {
		var reader *bytes.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				appErr = fmt.Errorf("recordstore: marshal body: %w", err)
				return nil
			}
			reader = bytes.NewReader(encoded)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
		if err != nil {
			appErr = fmt.Errorf("recordstore: create request: %w", err)
			return nil
		}
		req.Header.Set("Content-Type", "application/json")
		if s.token != "" {
			req.Header.Set("xc-token", s.token)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("recordstore: %s %s: %w", method, path, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			appErr = ErrNoEncontrado
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("recordstore: %s %s returned %d", method, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			appErr = fmt.Errorf("recordstore: %s %s returned %d", method, path, resp.StatusCode)
			return nil
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				appErr = fmt.Errorf("recordstore: decode response: %w", err)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return appErr
}
