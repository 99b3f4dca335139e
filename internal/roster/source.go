package roster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/netcollector/internal/domain"
)

const maxRosterBytes = 8 << 20

// HTTPSource fetches the device list from the roster API.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

// NewHTTPSource points at <apiBase>/devices.json.
func NewHTTPSource(apiBase string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		URL:    strings.TrimRight(apiBase, "/") + "/devices.json",
		Client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]domain.Device, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("%w: unexpected status %s", ErrFetch, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRosterBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrFetch, err)
	}
	var devices []domain.Device
	if err := json.Unmarshal(body, &devices); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrFetch, err)
	}
	return devices, nil
}
