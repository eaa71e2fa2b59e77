package catalog

import "strings"

// Any is the filter value that matches every entry.
const Any = "all"

// ArtistFilter narrows the artist listing. Empty fields and Any match all.
type ArtistFilter struct {
	Query     string `form:"q"`
	Specialty string `form:"specialty"`
	Location  string `form:"location"`
}

// Match reports whether a passes every set criterion. Query is a
// case-insensitive substring match on name, specialty or location.
func (f ArtistFilter) Match(a Artist) bool {
	if !containsFold(f.Query, a.Name, a.Specialty, a.Location) {
		return false
	}
	if !unset(f.Specialty) && f.Specialty != a.Specialty {
		return false
	}
	if !unset(f.Location) && f.Location != a.Location {
		return false
	}
	return true
}

// WallFilter narrows the wall listing. Empty fields and Any match all.
type WallFilter struct {
	Query    string `form:"q"`
	Type     string `form:"type"`
	Location string `form:"location"`
}

// Match reports whether w passes every set criterion. Query searches title,
// location and description; Location is a substring so "Paris" matches
// "75011 Paris".
func (f WallFilter) Match(w Wall) bool {
	if !containsFold(f.Query, w.Title, w.Location, w.Description) {
		return false
	}
	if !unset(f.Type) && f.Type != w.Type {
		return false
	}
	if !unset(f.Location) && !strings.Contains(w.Location, f.Location) {
		return false
	}
	return true
}

func unset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == Any
}

// containsFold matches the query as typed; only the empty query matches
// everything.
func containsFold(query string, fields ...string) bool {
	q := strings.ToLower(query)
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
