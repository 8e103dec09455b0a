package collector

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"strings"

	"codeberg.org/mutker/wattmon/internal/errors"
	"codeberg.org/mutker/wattmon/internal/kepler"
	"codeberg.org/mutker/wattmon/internal/logger"
)

type httpSource struct {
	cfg    Config
	client *http.Client
	logger logger.Logger
}

// NewHTTPSource creates a kepler.Source that scrapes cfg.Endpoint over HTTP
func NewHTTPSource(cfg Config, log logger.Logger) (kepler.Source, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			//nolint:gosec // G402: endpoint commonly serves a self-signed certificate
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	return &httpSource{
		cfg: Config{
			Endpoint:           strings.TrimRight(cfg.Endpoint, "/"),
			Timeout:            cfg.Timeout,
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		logger: log,
	}, nil
}

func (s *httpSource) Fetch(ctx context.Context) (string, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint, http.NoBody)
	if err != nil {
		return "", errFactory.Wrap(ErrRequestFailed, err)
	}

	s.logger.Debug().Str("endpoint", s.cfg.Endpoint).Msg("Fetching metrics")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", errFactory.Wrap(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errFactory.WithData(ErrUnexpectedStatus, struct {
			Endpoint string
			Status   int
		}{
			Endpoint: s.cfg.Endpoint,
			Status:   resp.StatusCode,
		})
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errFactory.Wrap(ErrReadBody, err)
	}

	return string(body), nil
}
