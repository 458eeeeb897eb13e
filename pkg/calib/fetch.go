package calib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/oncoplan/interp/pkg/geom"
)

// fetchTimeout bounds one fixture download.
const fetchTimeout = 30 * time.Second

// Wire format of an exported fixture set. Points are [x, y] mm pairs.
type fixtureFile struct {
	Fixtures []fixtureWire `json:"fixtures"`
}

type fixtureWire struct {
	Name    string     `json:"name"`
	TargetZ float64    `json:"targetZ"`
	A       []loopWire `json:"a"`
	B       []loopWire `json:"b"`
	Truth   []loopWire `json:"truth"`
}

type loopWire struct {
	Z      float64      `json:"z"`
	Points [][2]float64 `json:"points"`
}

// FetchFixtures downloads a JSON fixture set exported from the
// reference planning system.
func FetchFixtures(ctx context.Context, url string) ([]Fixture, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching fixtures: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching fixtures: %s returned %s", url, resp.Status)
	}

	var file fixtureFile
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding fixtures: %w", err)
	}
	return decodeFixtures(file)
}

// LoadFixtures reads a fixture set from a local JSON file.
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading fixtures: %w", err)
	}
	var file fixtureFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decoding fixtures %s: %w", path, err)
	}
	return decodeFixtures(file)
}

func decodeFixtures(file fixtureFile) ([]Fixture, error) {
	if len(file.Fixtures) == 0 {
		return nil, fmt.Errorf("fixture set is empty")
	}
	out := make([]Fixture, 0, len(file.Fixtures))
	for i, fw := range file.Fixtures {
		name := fw.Name
		if name == "" {
			name = fmt.Sprintf("fixture-%d", i)
		}
		out = append(out, Fixture{
			Name:    name,
			A:       decodeLoops(fw.A),
			B:       decodeLoops(fw.B),
			Truth:   decodeLoops(fw.Truth),
			TargetZ: fw.TargetZ,
		})
	}
	return out, nil
}

func decodeLoops(wires []loopWire) []geom.Contour {
	loops := make([]geom.Contour, 0, len(wires))
	for _, w := range wires {
		c := geom.Contour{Z: w.Z, Points: make([]geom.Point, 0, len(w.Points))}
		for _, p := range w.Points {
			c.Points = append(c.Points, geom.Pt(p[0], p[1]))
		}
		loops = append(loops, c)
	}
	return loops
}
