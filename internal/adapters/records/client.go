package records_client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"listing-service/internal/contextkeys"
	"listing-service/internal/core/port"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config - параметры подключения к хостинговому API записей.
type Config struct {
	BaseURL   string // например "https://api.example.com/v1"
	ProjectID string
	APIKey    string
	Timeout   time.Duration
}

// Client - клиент API записей (fetch/create/delete по имени таблицы).
type Client struct {
	baseURL    string
	projectID  string
	apiKey     string
	httpClient *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("records API base URL is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		projectID:  cfg.ProjectID,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (c *Client) tableURL(table string, suffix string) string {
	return c.baseURL + "/tables/" + url.PathEscape(table) + "/records" + suffix
}

// doRequest - внутренний хелпер: кодирует тело, ставит заголовки, проверяет статус и декодирует ответ.
// statusError - ответ API с кодом вне 2xx.
type statusError struct {
	StatusCode int
	Body       string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("records API returned status %d, body: %s", e.StatusCode, e.Body)
}

// errRecordNotFound - запись с таким id в таблице отсутствует.
var errRecordNotFound = errors.New("record not found")

func (c *Client) doRequest(ctx context.Context, method, endpoint string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.projectID != "" {
		req.Header.Set("X-Project-ID", c.projectID)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &statusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode records API response: %w", err)
	}
	return nil
}

func (c *Client) fetchRecords(ctx context.Context, table string, query fetchRequest) ([]json.RawMessage, error) {
	var resp fetchResponse
	if err := c.doRequest(ctx, http.MethodPost, c.tableURL(table, "/query"), query, &resp); err != nil {
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("records API fetch from %s failed: %s", table, resp.Message)
	}
	return resp.Data, nil
}

// getRecordByID читает одну запись. 404 или пустые данные дают errRecordNotFound.
func (c *Client) getRecordByID(ctx context.Context, table, id string, fields []string) (json.RawMessage, error) {
	endpoint := c.tableURL(table, "/"+url.PathEscape(id))
	if len(fields) > 0 {
		endpoint += "?" + url.Values{"fields": {strings.Join(fields, ",")}}.Encode()
	}

	var resp getResponse
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s/%s", errRecordNotFound, table, id)
		}
		return nil, err
	}
	if resp.Success != nil && !*resp.Success {
		return nil, fmt.Errorf("records API get of %s/%s failed: %s", table, id, resp.Message)
	}
	if len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil, fmt.Errorf("%w: %s/%s", errRecordNotFound, table, id)
	}
	return resp.Data, nil
}

// createRecord создает одну запись и возвращает ее данные из первого результата.
func (c *Client) createRecord(ctx context.Context, table string, record interface{}) (json.RawMessage, error) {
	var resp createResponse
	req := createRequest{Records: []interface{}{record}}
	if err := c.doRequest(ctx, http.MethodPost, c.tableURL(table, ""), req, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("records API create in %s failed: %s", table, resp.Message)
	}
	if len(resp.Results) == 0 || !resp.Results[0].Success {
		return nil, fmt.Errorf("records API create in %s did not return valid data", table)
	}
	return resp.Results[0].Data, nil
}

func (c *Client) deleteRecord(ctx context.Context, table, id string) error {
	var resp deleteResponse
	if err := c.doRequest(ctx, http.MethodDelete, c.tableURL(table, ""), deleteRequest{RecordIds: []string{id}}, &resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("records API delete of %s/%s failed: %s", table, id, resp.Message)
	}
	return nil
}

func clientLogger(ctx context.Context, component, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": component,
		"method":    method,
	})
}
