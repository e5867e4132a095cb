package matrix

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"collection-route-service/internal/instance"
	"collection-route-service/internal/platform/obs"
	"collection-route-service/internal/ports"
)

// OSRMProvider implements MatrixProvider against an OSRM table service.
// One bulk request per node set; distances come back in meters and
// durations in seconds and are stored as kilometers and minutes.
type OSRMProvider struct {
	session   *http.Client
	baseURL   string
	profile   string
	userAgent string
}

func NewOSRMProvider(baseURL string) *OSRMProvider {
	if baseURL == "" {
		baseURL = "http://router.project-osrm.org"
	}
	return &OSRMProvider{
		session:   &http.Client{Timeout: 30 * time.Second},
		baseURL:   strings.TrimRight(baseURL, "/"),
		profile:   "driving",
		userAgent: "collection-route-service/0.1 (ops@example.com)",
	}
}

type tableResponse struct {
	Code      string       `json:"code"`
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// FetchMatrix retrieves the full pairwise distance/duration matrix for
// the given node order with a single table request.
func (o *OSRMProvider) FetchMatrix(ctx context.Context, nodes []ports.NodePoint) (_ *instance.TravelMatrix, err error) {
	defer obs.Time(ctx, "osrm.FetchMatrix")(&err)

	if len(nodes) < 2 {
		return nil, errors.New("fetch matrix: at least two nodes are required")
	}

	coords := make([]string, 0, len(nodes))
	for _, n := range nodes {
		coords = append(coords,
			strconv.FormatFloat(n.Position.Lon, 'f', -1, 64)+","+
				strconv.FormatFloat(n.Position.Lat, 'f', -1, 64))
	}

	endpoint := fmt.Sprintf("%s/table/v1/%s/%s?%s",
		o.baseURL, o.profile, strings.Join(coords, ";"),
		url.Values{"annotations": {"distance,duration"}}.Encode(),
	)

	req, err := o.newRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch matrix: %w", err)
	}

	resp, err := o.do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch matrix: table request: %w", err)
	}
	defer resp.Body.Close()

	var decoded tableResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("fetch matrix: decode table response: %w", err)
	}

	if decoded.Code != "" && decoded.Code != "Ok" {
		return nil, fmt.Errorf("fetch matrix: table service returned code %q", decoded.Code)
	}
	if len(decoded.Distances) != len(nodes) || len(decoded.Durations) != len(nodes) {
		return nil, fmt.Errorf(
			"fetch matrix: row counts do not match nodes: distances=%d durations=%d nodes=%d",
			len(decoded.Distances), len(decoded.Durations), len(nodes),
		)
	}

	m := &instance.TravelMatrix{
		DistanceKm:  make(map[instance.Arc]float64, len(nodes)*(len(nodes)-1)),
		DurationMin: make(map[instance.Arc]float64, len(nodes)*(len(nodes)-1)),
	}

	for i, from := range nodes {
		if len(decoded.Distances[i]) != len(nodes) || len(decoded.Durations[i]) != len(nodes) {
			return nil, fmt.Errorf("fetch matrix: short row for %q", from.ID)
		}
		for j, to := range nodes {
			if i == j {
				continue
			}
			meters := decoded.Distances[i][j]
			seconds := decoded.Durations[i][j]
			if meters == nil || seconds == nil {
				return nil, fmt.Errorf("fetch matrix: missing entry for (%s, %s)", from.ID, to.ID)
			}

			arc := instance.Arc{From: from.ID, To: to.ID}
			m.DistanceKm[arc] = *meters / 1000.0
			m.DurationMin[arc] = *seconds / 60.0
		}
	}

	return m, nil
}
