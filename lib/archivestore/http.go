// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package archivestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DigestHeader carries the BLAKE3 digest of the request body.
const DigestHeader = "X-Content-Blake3"

// maxErrorBody bounds how much of an error response is kept for the
// error message.
const maxErrorBody = 4 << 10

// StatusError is a non-2xx response from the object endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upload rejected with status %d", e.StatusCode)
	}
	return fmt.Sprintf("upload rejected with status %d: %s", e.StatusCode, e.Body)
}

// Temporary reports whether retrying can help: server errors, request
// timeouts and rate limiting.
func (e *StatusError) Temporary() bool {
	return e.StatusCode >= 500 ||
		e.StatusCode == http.StatusRequestTimeout ||
		e.StatusCode == http.StatusTooManyRequests
}

// HTTPStoreOptions configures an HTTPStore.
type HTTPStoreOptions struct {
	// Endpoint is the base URL. Objects live at
	// <Endpoint>/<Bucket>/<key>.
	Endpoint *url.URL
	Bucket   string

	KeyPrefix string

	// Token, when set, is sent as a bearer token.
	Token string

	// RetryInterval is the first backoff delay. Zero means 100ms.
	RetryInterval time.Duration

	// MaxElapsed bounds retrying per upload. Zero retries until the
	// context ends.
	MaxElapsed time.Duration

	// Client defaults to a client with a five minute timeout.
	Client *http.Client

	// Logger receives a record per retry and per stored archive.
	// Nil discards.
	Logger *slog.Logger
}

// HTTPStore uploads archives with HTTP PUT.
type HTTPStore struct {
	endpoint      *url.URL
	bucket        string
	keyPrefix     string
	token         string
	retryInterval time.Duration
	maxElapsed    time.Duration
	client        *http.Client
	logger        *slog.Logger
}

// NewHTTPStore validates options and creates the store.
func NewHTTPStore(options HTTPStoreOptions) (*HTTPStore, error) {
	if options.Endpoint == nil || options.Endpoint.Host == "" {
		return nil, errors.New("HTTP store needs an endpoint with a host")
	}
	store := &HTTPStore{
		endpoint:      options.Endpoint,
		bucket:        options.Bucket,
		keyPrefix:     options.KeyPrefix,
		token:         options.Token,
		retryInterval: options.RetryInterval,
		maxElapsed:    options.MaxElapsed,
		client:        options.Client,
		logger:        options.Logger,
	}
	if store.retryInterval <= 0 {
		store.retryInterval = 100 * time.Millisecond
	}
	if store.client == nil {
		store.client = &http.Client{Timeout: 5 * time.Minute}
	}
	if store.logger == nil {
		store.logger = slog.New(slog.DiscardHandler)
	}
	return store, nil
}

// ObjectURL returns the URL an archive with seqno is stored at.
func (s *HTTPStore) ObjectURL(seqno uint32) string {
	if s.bucket == "" {
		return s.endpoint.JoinPath(Key(s.keyPrefix, seqno)).String()
	}
	return s.endpoint.JoinPath(s.bucket, Key(s.keyPrefix, seqno)).String()
}

func (s *HTTPStore) newBackOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff()
	exponential.InitialInterval = s.retryInterval
	exponential.MaxElapsedTime = s.maxElapsed
	exponential.Reset()
	return backoff.WithContext(exponential, ctx)
}

// Upload PUTs data, retrying network errors and temporary statuses
// with exponential backoff. Other statuses fail immediately.
func (s *HTTPStore) Upload(ctx context.Context, seqno uint32, data []byte) error {
	target := s.ObjectURL(seqno)
	digest := Sum(data)
	attempt := 0

	operation := func() error {
		attempt++
		err := s.put(ctx, target, data, digest)
		if err == nil {
			return nil
		}
		var status *StatusError
		if errors.As(err, &status) && !status.Temporary() {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		s.logger.Warn("upload failed, retrying",
			"url", target,
			"attempt", attempt,
			"delay", delay,
			"error", err,
		)
	}

	if err := backoff.RetryNotify(operation, s.newBackOff(ctx), notify); err != nil {
		return fmt.Errorf("uploading %s after %d attempts: %w", target, attempt, err)
	}

	s.logger.Info("archive uploaded", "url", target, "size", len(data), "attempts", attempt)
	return nil
}

func (s *HTTPStore) put(ctx context.Context, target string, data []byte, digest Digest) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodPut, target, bytes.NewReader(data))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}
	request.ContentLength = int64(len(data))
	request.Header.Set("Content-Type", "application/octet-stream")
	request.Header.Set(DigestHeader, digest.String())
	if s.token != "" {
		request.Header.Set("Authorization", "Bearer "+s.token)
	}

	response, err := s.client.Do(request)
	if err != nil {
		return fmt.Errorf("PUT %s: %w", target, err)
	}
	defer response.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	return &StatusError{StatusCode: response.StatusCode, Body: string(bytes.TrimSpace(body))}
}

// String describes the store for logs.
func (s *HTTPStore) String() string {
	return s.endpoint.Redacted() + " bucket=" + strconv.Quote(s.bucket)
}
