package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
)

// Stage is a step of the new-wall form. Stages are visited in order.
type Stage int

const (
	StageDetails Stage = iota
	StagePhotos
	StageBudget
	StageReview
)

var stageNames = [...]string{"details", "photos", "budget", "review"}

func (s Stage) String() string {
	if s < StageDetails || s > StageReview {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Stage) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err != nil {
		return err
	}
	for i, n := range stageNames {
		if n == name {
			*s = Stage(i)
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", name)
}

var (
	ErrAtLastStage    = apperr.New(apperr.KindConflict, "wizard.next", "already at the last stage")
	ErrAtFirstStage   = apperr.New(apperr.KindConflict, "wizard.previous", "already at the first stage")
	ErrNotInReview    = apperr.New(apperr.KindConflict, "wizard.submit", "the draft can only be submitted from the review stage")
	ErrSubmitInFlight = apperr.New(apperr.KindConflict, "wizard.submit", "a submission is already in progress")
	ErrClosed         = apperr.New(apperr.KindConflict, "wizard", "the wizard is closed")
)

// Receipt identifies what a successful submission created.
type Receipt struct {
	WallID    string `json:"wall_id"`
	ProjectID string `json:"project_id"`
}

// Submitter publishes a completed draft on behalf of ownerID.
type Submitter interface {
	Submit(ctx context.Context, ownerID string, draft WallDraft) (Receipt, error)
}

// State is the serializable form of a wizard.
type State struct {
	ID      string    `json:"id"`
	OwnerID string    `json:"owner_id"`
	Stage   Stage     `json:"stage"`
	Draft   WallDraft `json:"draft"`
	Closed  bool      `json:"closed"`
}

// CanSubmit reports whether submit is enabled.
func (s State) CanSubmit() bool {
	return !s.Closed && s.Stage == StageReview
}

// Wizard is the state machine behind the new-wall form. Fields persist
// across navigation; only Cancel or a successful Submit reset them.
type Wizard struct {
	mu         sync.Mutex
	st         State
	submitting bool
}

func New(id, ownerID string) *Wizard {
	return &Wizard{st: State{ID: id, OwnerID: ownerID, Stage: StageDetails, Draft: NewDraft()}}
}

func Restore(st State) *Wizard {
	if st.Draft.Photos == nil {
		st.Draft.Photos = []Photo{}
	}
	return &Wizard{st: st}
}

// State returns a copy safe to keep after further mutations.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	st := w.st
	st.Draft.Photos = append(make([]Photo, 0, len(w.st.Draft.Photos)), w.st.Draft.Photos...)
	return st
}

func (w *Wizard) Apply(p Patch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.st.Closed {
		return ErrClosed
	}
	draft := w.st.Draft
	if err := p.apply(&draft); err != nil {
		return err
	}
	w.st.Draft = draft
	return nil
}

// Advance moves to the next stage without checking the current one.
func (w *Wizard) Advance() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.st.Closed {
		return ErrClosed
	}
	if w.st.Stage >= StageReview {
		return ErrAtLastStage
	}
	w.st.Stage++
	return nil
}

func (w *Wizard) Retreat() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.st.Closed {
		return ErrClosed
	}
	if w.st.Stage <= StageDetails {
		return ErrAtFirstStage
	}
	w.st.Stage--
	return nil
}

func (w *Wizard) AddPhoto(p Photo) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.st.Closed {
		return ErrClosed
	}
	w.st.Draft.Photos = append(w.st.Draft.Photos, p)
	return nil
}

// RemovePhoto drops the photo at index. An out-of-range index is a no-op
// and ok is false.
func (w *Wizard) RemovePhoto(index int) (removed Photo, ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	photos := w.st.Draft.Photos
	if w.st.Closed || index < 0 || index >= len(photos) {
		return Photo{}, false
	}
	removed = photos[index]
	next := make([]Photo, 0, len(photos)-1)
	next = append(next, photos[:index]...)
	next = append(next, photos[index+1:]...)
	w.st.Draft.Photos = next
	return removed, true
}

// Submit validates the draft and hands it to sub. On failure the draft is
// kept for another attempt; on success it is cleared and the wizard closes.
func (w *Wizard) Submit(ctx context.Context, sub Submitter) (Receipt, error) {
	w.mu.Lock()
	switch {
	case w.st.Closed:
		w.mu.Unlock()
		return Receipt{}, ErrClosed
	case w.submitting:
		w.mu.Unlock()
		return Receipt{}, ErrSubmitInFlight
	case w.st.Stage != StageReview:
		w.mu.Unlock()
		return Receipt{}, ErrNotInReview
	}
	if err := w.st.Draft.Validate(); err != nil {
		w.mu.Unlock()
		return Receipt{}, err
	}
	w.submitting = true
	owner, draft := w.st.OwnerID, w.st.Draft
	draft.Photos = append([]Photo(nil), w.st.Draft.Photos...)
	w.mu.Unlock()

	receipt, err := sub.Submit(ctx, owner, draft)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	if err != nil {
		if apperr.KindOf(err) == apperr.KindInternal {
			err = apperr.Unavailable("wizard.submit", err)
		}
		return Receipt{}, err
	}
	w.st.Draft = NewDraft()
	w.st.Stage = StageDetails
	w.st.Closed = true
	return receipt, nil
}

// Cancel discards the draft and closes the wizard. It returns the photos
// that were attached so their blobs can be released.
func (w *Wizard) Cancel() []Photo {
	w.mu.Lock()
	defer w.mu.Unlock()
	photos := w.st.Draft.Photos
	w.st.Draft = NewDraft()
	w.st.Stage = StageDetails
	w.st.Closed = true
	return photos
}
