package travel

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"

	"fieldsheet/config"
)

// MatrixClient queries a distance-matrix style REST endpoint for
// driving durations between consecutive address pairs. Pairs are
// independent reads, queried sequentially in input order.
type MatrixClient struct {
	httpClient *resty.Client
	key        string
}

// NewMatrixClient builds a client from the travel configuration.
func NewMatrixClient(cfg config.TravelConfig) *MatrixClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.BaseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second)

	return &MatrixClient{
		httpClient: restyClient,
		key:        cfg.APIKey,
	}
}

// ForConfig picks an estimator: the matrix client when a credential is
// configured, otherwise the flat buffer.
func ForConfig(cfg config.Config) Estimator {
	if cfg.Travel.APIKey == "" {
		return FlatEstimator{Minutes: cfg.Allocation.TravelBufferMinutes}
	}
	return NewMatrixClient(cfg.Travel)
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string `json:"status"`
			Duration struct {
				Value int `json:"value"` // seconds
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func (c *MatrixClient) Legs(ctx context.Context, addresses []string) ([]int, error) {
	if len(addresses) < 2 {
		return nil, nil
	}

	legs := make([]int, 0, len(addresses)-1)
	for i := 0; i+1 < len(addresses); i++ {
		minutes, err := c.pairMinutes(ctx, addresses[i], addresses[i+1])
		if err != nil {
			return nil, fmt.Errorf("travel leg %d (%q -> %q): %w", i, addresses[i], addresses[i+1], err)
		}
		legs = append(legs, minutes)
	}
	return legs, nil
}

func (c *MatrixClient) pairMinutes(ctx context.Context, origin, destination string) (int, error) {
	var payload matrixResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"origins":      origin,
			"destinations": destination,
			"key":          c.key,
		}).
		SetResult(&payload).
		Get("")
	if err != nil {
		return 0, err
	}
	if resp.IsError() {
		return 0, fmt.Errorf("provider returned HTTP %d", resp.StatusCode())
	}
	if payload.Status != "OK" {
		return 0, fmt.Errorf("provider status %q", payload.Status)
	}
	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return 0, fmt.Errorf("provider returned no elements")
	}
	element := payload.Rows[0].Elements[0]
	if element.Status != "OK" {
		return 0, fmt.Errorf("provider element status %q", element.Status)
	}

	return int(math.Round(float64(element.Duration.Value) / 60.0)), nil
}
