// Package catalog serves the public artist and wall listings shown on the
// discovery pages. The listings ship with the binary as YAML.
package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

type PortfolioItem struct {
	ID          int    `yaml:"id" json:"id"`
	Title       string `yaml:"title" json:"title"`
	Year        int    `yaml:"year" json:"year"`
	Location    string `yaml:"location" json:"location"`
	Image       string `yaml:"image" json:"image"`
	Description string `yaml:"description" json:"description"`
}

type Review struct {
	ID      int    `yaml:"id" json:"id"`
	Author  string `yaml:"author" json:"author"`
	Rating  int    `yaml:"rating" json:"rating"`
	Date    string `yaml:"date" json:"date"`
	Comment string `yaml:"comment" json:"comment"`
}

// ArtistProfile is the detail section shown on /artistes/:id.
type ArtistProfile struct {
	Bio             string          `yaml:"bio" json:"bio"`
	ReviewCount     int             `yaml:"review_count" json:"review_count"`
	ExperienceYears int             `yaml:"experience_years" json:"experience_years"`
	Instagram       string          `yaml:"instagram" json:"instagram,omitempty"`
	Website         string          `yaml:"website" json:"website,omitempty"`
	Availability    string          `yaml:"availability" json:"availability"`
	PriceRange      string          `yaml:"price_range" json:"price_range"`
	Specialties     []string        `yaml:"specialties" json:"specialties"`
	Portfolio       []PortfolioItem `yaml:"portfolio" json:"portfolio"`
	Reviews         []Review        `yaml:"reviews" json:"reviews"`
}

type Artist struct {
	ID          string         `yaml:"id" json:"id"`
	Name        string         `yaml:"name" json:"name"`
	Specialty   string         `yaml:"specialty" json:"specialty"`
	Location    string         `yaml:"location" json:"location"`
	Rating      float64        `yaml:"rating" json:"rating"`
	Projects    int            `yaml:"projects" json:"projects"`
	Description string         `yaml:"description" json:"description"`
	Image       string         `yaml:"image" json:"image"`
	Price       string         `yaml:"price" json:"price"`
	Lat         float64        `yaml:"lat" json:"lat"`
	Lng         float64        `yaml:"lng" json:"lng"`
	Profile     *ArtistProfile `yaml:"profile" json:"profile,omitempty"`
}

// WallProfile is the detail section shown on /murs/:id.
type WallProfile struct {
	Address          string   `yaml:"address" json:"address"`
	OwnerName        string   `yaml:"owner_name" json:"owner_name"`
	Height           float64  `yaml:"height" json:"height"`
	Width            float64  `yaml:"width" json:"width"`
	BudgetMin        int      `yaml:"budget_min" json:"budget_min"`
	BudgetMax        int      `yaml:"budget_max" json:"budget_max"`
	Currency         string   `yaml:"currency" json:"currency"`
	Images           []string `yaml:"images" json:"images"`
	Requirements     []string `yaml:"requirements" json:"requirements"`
	Amenities        []string `yaml:"amenities" json:"amenities"`
	PreferredContact string   `yaml:"preferred_contact" json:"preferred_contact"`
	ResponseTime     string   `yaml:"response_time" json:"response_time"`
	CreatedAt        string   `yaml:"created_at" json:"created_at"`
}

type Wall struct {
	ID          string       `yaml:"id" json:"id"`
	Title       string       `yaml:"title" json:"title"`
	Type        string       `yaml:"type" json:"type"`
	Location    string       `yaml:"location" json:"location"`
	Surface     string       `yaml:"surface" json:"surface"`
	OwnerType   string       `yaml:"owner_type" json:"owner_type"`
	Size        string       `yaml:"size" json:"size"`
	Area        string       `yaml:"area" json:"area"`
	Budget      string       `yaml:"budget" json:"budget"`
	Deadline    string       `yaml:"deadline" json:"deadline"`
	Description string       `yaml:"description" json:"description"`
	Image       string       `yaml:"image" json:"image"`
	Status      string       `yaml:"status" json:"status"`
	Lat         float64      `yaml:"lat" json:"lat"`
	Lng         float64      `yaml:"lng" json:"lng"`
	Profile     *WallProfile `yaml:"profile" json:"profile,omitempty"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	artists []Artist
	walls   []Wall
}

// Load parses the embedded listings.
func Load() (*Catalog, error) {
	a, err := dataFS.ReadFile("data/artists.yaml")
	if err != nil {
		return nil, err
	}
	w, err := dataFS.ReadFile("data/walls.yaml")
	if err != nil {
		return nil, err
	}
	return Parse(a, w)
}

func Parse(artistsYAML, wallsYAML []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(artistsYAML, &c.artists); err != nil {
		return nil, fmt.Errorf("parse artists: %w", err)
	}
	if err := yaml.Unmarshal(wallsYAML, &c.walls); err != nil {
		return nil, fmt.Errorf("parse walls: %w", err)
	}

	seen := make(map[string]bool, len(c.artists)+len(c.walls))
	for _, a := range c.artists {
		if a.ID == "" || seen[a.ID] {
			return nil, fmt.Errorf("artist %q: missing or duplicate id", a.Name)
		}
		seen[a.ID] = true
	}
	for _, w := range c.walls {
		if w.ID == "" || seen[w.ID] {
			return nil, fmt.Errorf("wall %q: missing or duplicate id", w.Title)
		}
		seen[w.ID] = true
	}
	return &c, nil
}

// Artists returns the artists matching f, in listing order.
func (c *Catalog) Artists(f ArtistFilter) []Artist {
	out := make([]Artist, 0, len(c.artists))
	for _, a := range c.artists {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out
}

func (c *Catalog) Artist(id string) (Artist, bool) {
	for _, a := range c.artists {
		if a.ID == id {
			return a, true
		}
	}
	return Artist{}, false
}

// Walls returns the walls matching f, in listing order.
func (c *Catalog) Walls(f WallFilter) []Wall {
	out := make([]Wall, 0, len(c.walls))
	for _, w := range c.walls {
		if f.Match(w) {
			out = append(out, w)
		}
	}
	return out
}

func (c *Catalog) Wall(id string) (Wall, bool) {
	for _, w := range c.walls {
		if w.ID == id {
			return w, true
		}
	}
	return Wall{}, false
}

// Facets lists the distinct values the listing filters accept.
type Facets struct {
	Specialties []string `json:"specialties"`
	Locations   []string `json:"locations"`
	WallTypes   []string `json:"wall_types"`
}

func (c *Catalog) Facets() Facets {
	f := Facets{Specialties: []string{}, Locations: []string{}, WallTypes: []string{}}
	for _, a := range c.artists {
		f.Specialties = appendUnique(f.Specialties, a.Specialty)
		f.Locations = appendUnique(f.Locations, a.Location)
	}
	for _, w := range c.walls {
		f.WallTypes = appendUnique(f.WallTypes, w.Type)
	}
	return f
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
