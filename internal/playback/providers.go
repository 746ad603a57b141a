package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// StaticConfigProvider serves camera configs from an in-memory map. Useful
// for tests and single-box deployments where the config is known up front.
type StaticConfigProvider struct {
	Configs map[CameraID]CameraConfig
}

// CameraConfig implements ConfigProvider.
func (p *StaticConfigProvider) CameraConfig(_ context.Context, camera CameraID) (CameraConfig, error) {
	cfg, ok := p.Configs[camera]
	if !ok {
		return CameraConfig{}, fmt.Errorf("no config for camera %q", camera)
	}
	return cfg, nil
}

// StaticRecordingProvider serves recordings from an in-memory map, filtered
// to the requested window and ordered by start time.
type StaticRecordingProvider struct {
	Records map[CameraID][]Recording
}

// Recordings implements RecordingProvider.
func (p *StaticRecordingProvider) Recordings(_ context.Context, camera CameraID, before, after int64) ([]Recording, error) {
	out := []Recording{}
	for _, rec := range p.Records[camera] {
		if rec.StartTime <= float64(before) && rec.EndTime >= float64(after) {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

// APIProvider fetches camera configs and recordings from the NVR HTTP API:
// GET {base}api/{camera}/config and
// GET {base}api/{camera}/recordings?before=&after=.
// It implements both ConfigProvider and RecordingProvider.
type APIProvider struct {
	base   string
	client *http.Client
}

// NewAPIProvider returns a provider rooted at base (trailing slash added if
// missing). A nil client selects a default with a 10s timeout.
func NewAPIProvider(base string, client *http.Client) *APIProvider {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &APIProvider{base: base, client: client}
}

// CameraConfig implements ConfigProvider.
func (p *APIProvider) CameraConfig(ctx context.Context, camera CameraID) (CameraConfig, error) {
	var cfg CameraConfig
	u := p.base + "api/" + url.PathEscape(string(camera)) + "/config"
	if err := p.getJSON(ctx, u, &cfg); err != nil {
		return CameraConfig{}, err
	}
	return cfg, nil
}

// Recordings implements RecordingProvider.
func (p *APIProvider) Recordings(ctx context.Context, camera CameraID, before, after int64) ([]Recording, error) {
	q := url.Values{}
	q.Set("before", strconv.FormatInt(before, 10))
	q.Set("after", strconv.FormatInt(after, 10))
	u := p.base + "api/" + url.PathEscape(string(camera)) + "/recordings?" + q.Encode()

	var recs []Recording
	if err := p.getJSON(ctx, u, &recs); err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []Recording{}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].StartTime < recs[j].StartTime })
	return recs, nil
}

func (p *APIProvider) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", u, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
