package heartbeat

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"crm_backend/internal/infrastructure/logsink"
	"crm_backend/pkg/logger"
)

const timestampLayout = "02/01/2006-15:04:05"

// Probe writes a liveness line on every run and then checks that the API
// still answers on its hello endpoint. Probe failures are logged, never
// fatal.
type Probe struct {
	httpClient *http.Client
	baseURL    string
	sink       logsink.Sink
	log        logger.Logger
	now        func() time.Time
}

func NewProbe(baseURL string, sink logsink.Sink, log logger.Logger) *Probe {
	return &Probe{
		baseURL: baseURL,
		sink:    sink,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
			},
		},
	}
}

func (p *Probe) Run(ctx context.Context) error {
	ts := p.now().Format(timestampLayout)

	if err := p.sink.Append(ts + " CRM is alive"); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}

	message, err := p.checkAPI(ctx)
	if err != nil {
		if appendErr := p.sink.Append(fmt.Sprintf("%s API check failed: %v", ts, err)); appendErr != nil {
			return fmt.Errorf("write heartbeat: %w", appendErr)
		}
		p.log.Warn("api check failed", logger.Error(err))
		return nil
	}

	if err := p.sink.Append(fmt.Sprintf("%s API endpoint response: %s", ts, message)); err != nil {
		return fmt.Errorf("write heartbeat: %w", err)
	}
	return nil
}

func (p *Probe) checkAPI(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/hello", nil)
	if err != nil {
		return "", err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode hello response: %w", err)
	}
	return body.Message, nil
}
