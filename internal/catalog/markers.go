package catalog

import (
	"strings"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
)

type MarkerKind string

const (
	MarkerArtist MarkerKind = "artist"
	MarkerWall   MarkerKind = "wall"
)

// Layer selects which markers the map shows.
type Layer string

const (
	LayerAll     Layer = "all"
	LayerArtists Layer = "artists"
	LayerWalls   Layer = "walls"
)

func ParseLayer(s string) (Layer, error) {
	switch l := Layer(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return LayerAll, nil
	case LayerAll, LayerArtists, LayerWalls:
		return l, nil
	}
	return "", apperr.Validation("catalog.markers", "unknown map layer "+s)
}

// Marker is one pin on the map. Artist pins carry rating and project count,
// wall pins carry budget and size.
type Marker struct {
	ID        string     `json:"id"`
	Kind      MarkerKind `json:"type"`
	Name      string     `json:"name"`
	Location  string     `json:"location"`
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	Specialty string     `json:"specialty,omitempty"`
	Rating    float64    `json:"rating,omitempty"`
	Projects  int        `json:"projects,omitempty"`
	Budget    string     `json:"budget,omitempty"`
	Size      string     `json:"size,omitempty"`
}

// Markers returns the pins of layer whose location contains city
// (case-insensitive). Artists come before walls.
func (c *Catalog) Markers(layer Layer, city string) []Marker {
	out := []Marker{}
	if layer == LayerAll || layer == LayerArtists {
		for _, a := range c.artists {
			if !containsFold(city, a.Location) {
				continue
			}
			out = append(out, Marker{
				ID: a.ID, Kind: MarkerArtist, Name: a.Name, Location: a.Location,
				Lat: a.Lat, Lng: a.Lng, Specialty: a.Specialty, Rating: a.Rating, Projects: a.Projects,
			})
		}
	}
	if layer == LayerAll || layer == LayerWalls {
		for _, w := range c.walls {
			if !containsFold(city, w.Location) {
				continue
			}
			out = append(out, Marker{
				ID: w.ID, Kind: MarkerWall, Name: w.Title, Location: w.Location,
				Lat: w.Lat, Lng: w.Lng, Budget: w.Budget, Size: w.Size,
			})
		}
	}
	return out
}
