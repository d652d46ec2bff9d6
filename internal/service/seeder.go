package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/forgo/taskflow/internal/model"
)

// Seed defaults
const (
	DefaultSeedURL     = "https://dummyjson.com/todos"
	DefaultSeedTimeout = 5 * time.Second
	DefaultSeedLimit   = 8

	// maxSeedBody bounds how much of the seed response is read
	maxSeedBody = 1 << 20
)

// Seed sources reported by Bootstrap
const (
	SeedSourceRemote   = "remote"
	SeedSourceFallback = "fallback"
)

// FallbackSeedTexts is used whenever the remote seed cannot be used
var FallbackSeedTexts = []string{
	"Welcome to TaskFlow! This is your first task.",
	"Try moving tasks between different stages",
}

// seedResponse is the shape of the remote seed document
type seedResponse struct {
	Todos []struct {
		Todo string `json:"todo"`
	} `json:"todos"`
}

// SeederService builds the first-run task collection
type SeederService struct {
	url        string
	limit      int
	timeout    time.Duration
	httpClient *http.Client
	lifecycle  *Lifecycle
	logger     *slog.Logger
}

// SeederServiceConfig holds configuration for the seeder service
type SeederServiceConfig struct {
	URL        string
	Timeout    time.Duration
	Limit      int
	HTTPClient *http.Client // optional; built from Timeout when nil
	Lifecycle  *Lifecycle
	Logger     *slog.Logger
}

// NewSeederService creates a new seeder service
func NewSeederService(cfg SeederServiceConfig) *SeederService {
	s := &SeederService{
		url:        cfg.URL,
		limit:      cfg.Limit,
		timeout:    cfg.Timeout,
		httpClient: cfg.HTTPClient,
		lifecycle:  cfg.Lifecycle,
		logger:     cfg.Logger,
	}
	if s.url == "" {
		s.url = DefaultSeedURL
	}
	if s.limit <= 0 {
		s.limit = DefaultSeedLimit
	}
	if s.timeout <= 0 {
		s.timeout = DefaultSeedTimeout
	}
	if s.httpClient == nil {
		s.httpClient = &http.Client{Timeout: s.timeout}
	}
	if s.lifecycle == nil {
		s.lifecycle = NewLifecycle(LifecycleConfig{})
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// FetchSeed returns the seed texts and their source. It never fails:
// any problem with the remote document yields the fallback texts.
func (s *SeederService) FetchSeed(ctx context.Context) ([]string, string) {
	texts, err := s.fetchRemote(ctx)
	if err != nil {
		s.logger.Warn("using fallback seed", "url", s.url, "error", err)
		return append([]string(nil), FallbackSeedTexts...), SeedSourceFallback
	}
	return texts, SeedSourceRemote
}

// Bootstrap builds a collection whose todo stage holds the seed tasks in
// the order received, first text at the front
func (s *SeederService) Bootstrap(ctx context.Context) (*model.TaskCollection, string) {
	texts, source := s.FetchSeed(ctx)

	tasks := make([]model.Task, 0, len(texts))
	for _, text := range texts {
		tasks = append(tasks, s.lifecycle.NewTask(text))
	}

	collection := model.NewTaskCollection()
	collection.SetList(model.StageTodo, tasks)
	return collection, source
}

// fetchRemote reads the seed document. Only the first limit items are
// considered; blank ones among them are dropped.
func (s *SeederService) fetchRemote(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSeedFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrSeedFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSeedBody))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrSeedFetch, err)
	}

	var doc seedResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrSeedFetch, err)
	}

	items := doc.Todos[:min(len(doc.Todos), s.limit)]
	texts := make([]string, 0, len(items))
	for _, item := range items {
		text := strings.TrimSpace(item.Todo)
		if text == "" {
			continue
		}
		texts = append(texts, truncateText(text, model.MaxTaskTextLength))
	}
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: no usable items", ErrSeedFetch)
	}
	return texts, nil
}

// truncateText cuts text to at most max characters
func truncateText(text string, max int) string {
	if model.TextLength(text) <= max {
		return text
	}
	return string([]rune(text)[:max])
}
