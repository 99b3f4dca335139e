package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/netcollector/internal/domain"
)

// Collector posts result batches to <collectorBase>/server.php.
type Collector struct {
	URL    string
	Client *http.Client
}

func NewCollector(base string, timeout time.Duration) *Collector {
	return &Collector{
		URL:    strings.TrimRight(base, "/") + "/server.php",
		Client: &http.Client{Timeout: timeout},
	}
}

type batchPayload struct {
	Data []domain.ProbeResult `json:"data"`
}

func (c *Collector) Send(ctx context.Context, results []domain.ProbeResult) error {
	body, err := json.Marshal(batchPayload{Data: results})
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrReport, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: create request: %w", ErrReport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: collector answered %s", ErrReport, resp.Status)
	}
	return nil
}
