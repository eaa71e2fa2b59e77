package wizard

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
)

const (
	DefaultSurfaceType   = "béton"
	DefaultOwnerType     = "individuel"
	DefaultDesiredTiming = "1-3_mois"
)

var (
	SurfaceTypes   = []string{"béton", "brique", "métal", "bois", "autre"}
	OwnerTypes     = []string{"individuel", "entreprise", "association", "collectivité"}
	DesiredTimings = []string{"urgent", "1-3_mois", "3-6_mois", "flexible"}
)

// Photo references an uploaded blob in object storage.
type Photo struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// WallDraft accumulates the fields of a new wall listing across stages.
type WallDraft struct {
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Location      string  `json:"location"`
	PostalCode    string  `json:"postal_code"`
	SurfaceType   string  `json:"surface_type"`
	OwnerType     string  `json:"owner_type"`
	Indoor        bool    `json:"indoor"`
	Height        float64 `json:"height"`
	Width         float64 `json:"width"`
	BudgetMin     int     `json:"budget_min"`
	BudgetMax     int     `json:"budget_max"`
	DesiredTiming string  `json:"desired_timing"`
	Deadline      string  `json:"deadline"`
	Photos        []Photo `json:"photos"`
}

// NewDraft returns an empty draft with the form defaults preselected.
func NewDraft() WallDraft {
	return WallDraft{
		SurfaceType:   DefaultSurfaceType,
		OwnerType:     DefaultOwnerType,
		DesiredTiming: DefaultDesiredTiming,
		Photos:        []Photo{},
	}
}

// Patch carries the fields a client changed; nil fields are left alone.
type Patch struct {
	Title         *string  `json:"title,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Location      *string  `json:"location,omitempty"`
	PostalCode    *string  `json:"postal_code,omitempty"`
	SurfaceType   *string  `json:"surface_type,omitempty"`
	OwnerType     *string  `json:"owner_type,omitempty"`
	Indoor        *bool    `json:"indoor,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	Width         *float64 `json:"width,omitempty"`
	BudgetMin     *int     `json:"budget_min,omitempty"`
	BudgetMax     *int     `json:"budget_max,omitempty"`
	DesiredTiming *string  `json:"desired_timing,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
}

// apply copies the set fields into d. Choice fields must hold one of the
// known values; free-text fields are accepted as typed.
func (p Patch) apply(d *WallDraft) error {
	const op = "wizard.update"

	if p.SurfaceType != nil && !slices.Contains(SurfaceTypes, *p.SurfaceType) {
		return apperr.Validation(op, fmt.Sprintf("surface_type must be one of %s", strings.Join(SurfaceTypes, ", ")))
	}
	if p.OwnerType != nil && !slices.Contains(OwnerTypes, *p.OwnerType) {
		return apperr.Validation(op, fmt.Sprintf("owner_type must be one of %s", strings.Join(OwnerTypes, ", ")))
	}
	if p.DesiredTiming != nil && !slices.Contains(DesiredTimings, *p.DesiredTiming) {
		return apperr.Validation(op, fmt.Sprintf("desired_timing must be one of %s", strings.Join(DesiredTimings, ", ")))
	}

	setString(&d.Title, p.Title)
	setString(&d.Description, p.Description)
	setString(&d.Location, p.Location)
	setString(&d.PostalCode, p.PostalCode)
	setString(&d.SurfaceType, p.SurfaceType)
	setString(&d.OwnerType, p.OwnerType)
	setString(&d.DesiredTiming, p.DesiredTiming)
	setString(&d.Deadline, p.Deadline)
	if p.Indoor != nil {
		d.Indoor = *p.Indoor
	}
	if p.Height != nil {
		d.Height = *p.Height
	}
	if p.Width != nil {
		d.Width = *p.Width
	}
	if p.BudgetMin != nil {
		d.BudgetMin = *p.BudgetMin
	}
	if p.BudgetMax != nil {
		d.BudgetMax = *p.BudgetMax
	}
	return nil
}

// FieldErrors maps a draft field to what is wrong with it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, f := range fieldOrder {
		if msg, ok := fe[f]; ok {
			parts = append(parts, f+": "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

var fieldOrder = []string{
	"title", "location", "postal_code", "surface_type", "owner_type",
	"height", "width", "budget_min", "budget_max", "desired_timing", "deadline",
}

// Validate checks the draft is complete enough to publish.
func (d WallDraft) Validate() error {
	fe := FieldErrors{}

	if strings.TrimSpace(d.Title) == "" {
		fe["title"] = "required"
	}
	if strings.TrimSpace(d.Location) == "" {
		fe["location"] = "required"
	}
	if !validPostalCode(d.PostalCode) {
		fe["postal_code"] = "must be 5 digits"
	}
	if !slices.Contains(SurfaceTypes, d.SurfaceType) {
		fe["surface_type"] = "unknown value"
	}
	if !slices.Contains(OwnerTypes, d.OwnerType) {
		fe["owner_type"] = "unknown value"
	}
	if d.Height <= 0 {
		fe["height"] = "must be positive"
	}
	if d.Width <= 0 {
		fe["width"] = "must be positive"
	}
	if d.BudgetMin <= 0 {
		fe["budget_min"] = "must be positive"
	}
	if d.BudgetMax <= 0 {
		fe["budget_max"] = "must be positive"
	} else if d.BudgetMin > d.BudgetMax {
		fe["budget_max"] = "must not be below budget_min"
	}
	if !slices.Contains(DesiredTimings, d.DesiredTiming) {
		fe["desired_timing"] = "unknown value"
	}
	if d.Deadline != "" {
		if _, err := time.Parse(time.DateOnly, d.Deadline); err != nil {
			fe["deadline"] = "must be YYYY-MM-DD"
		}
	}

	if len(fe) == 0 {
		return nil
	}
	return &apperr.Error{Kind: apperr.KindValidation, Op: "wizard.submit", Msg: fe.Error(), Err: fe}
}

// DeadlineDate parses Deadline; ok is false when it is unset.
func (d WallDraft) DeadlineDate() (t time.Time, ok bool) {
	if d.Deadline == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, d.Deadline)
	return t, err == nil
}

func validPostalCode(s string) bool {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
