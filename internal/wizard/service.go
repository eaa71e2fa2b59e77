package wizard

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/wxllspace/wxllspace-backend/internal/apperr"
	"github.com/wxllspace/wxllspace-backend/internal/logging"
	"github.com/wxllspace/wxllspace-backend/internal/metrics"
	"github.com/wxllspace/wxllspace-backend/internal/storage/objects"
)

// View is a draft as returned to the client.
type View struct {
	State
	CanSubmit bool     `json:"can_submit"`
	Stages    []string `json:"stages"`
	PhotoURLs []string `json:"photo_urls"`
}

// Upload is a photo file received from the client.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service drives wizards whose state lives in a DraftStore, one HTTP call
// per transition.
type Service struct {
	drafts     *DraftStore
	blobs      objects.Store
	submitter  Submitter
	presignTTL time.Duration
}

func NewService(drafts *DraftStore, blobs objects.Store, submitter Submitter, presignTTL time.Duration) *Service {
	return &Service{drafts: drafts, blobs: blobs, submitter: submitter, presignTTL: presignTTL}
}

func (s *Service) Create(ctx context.Context, ownerID string) (View, error) {
	w := New(uuid.NewString(), ownerID)
	if err := s.drafts.Save(ctx, w.State()); err != nil {
		return View{}, apperr.Unavailable("wizard.create", err)
	}
	return s.view(ctx, w.State()), nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]View, error) {
	states, err := s.drafts.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperr.Unavailable("wizard.list", err)
	}
	out := make([]View, 0, len(states))
	for _, st := range states {
		out = append(out, s.view(ctx, st))
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, ownerID, id string) (View, error) {
	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	return s.view(ctx, w.State()), nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, p Patch) (View, error) {
	return s.mutate(ctx, ownerID, id, func(w *Wizard) error { return w.Apply(p) })
}

func (s *Service) Next(ctx context.Context, ownerID, id string) (View, error) {
	return s.mutate(ctx, ownerID, id, func(w *Wizard) error { return w.Advance() })
}

func (s *Service) Previous(ctx context.Context, ownerID, id string) (View, error) {
	return s.mutate(ctx, ownerID, id, func(w *Wizard) error { return w.Retreat() })
}

// AddPhoto stores the blob first and appends its reference to the draft.
func (s *Service) AddPhoto(ctx context.Context, ownerID, id string, up Upload) (View, error) {
	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}

	key := objects.PhotoKey(id, up.Name)
	if err := s.blobs.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return View{}, apperr.Unavailable("wizard.add_photo", err)
	}

	photo := Photo{Key: key, Name: up.Name, ContentType: up.ContentType, Size: up.Size}
	if err := w.AddPhoto(photo); err != nil {
		s.deleteBlobs(ctx, []Photo{photo})
		return View{}, err
	}
	if err := s.drafts.Save(ctx, w.State()); err != nil {
		s.deleteBlobs(ctx, []Photo{photo})
		return View{}, apperr.Unavailable("wizard.add_photo", err)
	}
	return s.view(ctx, w.State()), nil
}

// RemovePhoto is a no-op for an index outside the photo list.
func (s *Service) RemovePhoto(ctx context.Context, ownerID, id string, index int) (View, error) {
	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	removed, ok := w.RemovePhoto(index)
	if !ok {
		return s.view(ctx, w.State()), nil
	}
	if err := s.drafts.Save(ctx, w.State()); err != nil {
		return View{}, apperr.Unavailable("wizard.remove_photo", err)
	}
	s.deleteBlobs(ctx, []Photo{removed})
	return s.view(ctx, w.State()), nil
}

// Submit publishes the draft. The Redis lock rejects a second submission of
// the same draft while the first one is running. The draft is read again
// under the lock: a draft published by an earlier submission is gone by then
// and reported as not found.
func (s *Service) Submit(ctx context.Context, ownerID, id string) (Receipt, error) {
	const op = "wizard.submit"

	if _, err := s.load(ctx, ownerID, id); err != nil {
		return Receipt{}, err
	}

	locked, err := s.drafts.Lock(ctx, id)
	if err != nil {
		return Receipt{}, apperr.Unavailable(op, err)
	}
	if !locked {
		return Receipt{}, ErrSubmitInFlight
	}
	defer func() {
		if err := s.drafts.Unlock(context.WithoutCancel(ctx), id); err != nil {
			logging.NewLogger(ctx).LogError(op, err)
		}
	}()

	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return Receipt{}, err
	}

	receipt, err := w.Submit(ctx, s.submitter)
	if err != nil {
		if apperr.Is(err, apperr.KindUnavailable) {
			metrics.WizardSubmissions.WithLabelValues("error").Inc()
			logging.NewLogger(ctx).LogErrorf(op, "publishing draft %s failed, draft kept: %v", id, err)
		}
		return Receipt{}, err
	}
	metrics.WizardSubmissions.WithLabelValues("ok").Inc()

	if err := s.drafts.Delete(ctx, w.State()); err != nil {
		logging.NewLogger(ctx).LogErrorf(op, "draft %s published as %s but not deleted: %v", id, receipt.WallID, err)
	}
	logging.NewLogger(ctx).LogInfof(op, "draft %s published as wall %s", id, receipt.WallID)
	return receipt, nil
}

// Cancel deletes the draft and the blobs of its photos.
func (s *Service) Cancel(ctx context.Context, ownerID, id string) error {
	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return err
	}
	photos := w.Cancel()
	if err := s.drafts.Delete(ctx, w.State()); err != nil {
		return apperr.Unavailable("wizard.cancel", err)
	}
	s.deleteBlobs(ctx, photos)
	return nil
}

func (s *Service) mutate(ctx context.Context, ownerID, id string, fn func(*Wizard) error) (View, error) {
	w, err := s.load(ctx, ownerID, id)
	if err != nil {
		return View{}, err
	}
	if err := fn(w); err != nil {
		return View{}, err
	}
	if err := s.drafts.Save(ctx, w.State()); err != nil {
		return View{}, apperr.Unavailable("wizard.save", err)
	}
	return s.view(ctx, w.State()), nil
}

// load restores a draft owned by ownerID. Drafts of other owners are
// reported as missing.
func (s *Service) load(ctx context.Context, ownerID, id string) (*Wizard, error) {
	st, err := s.drafts.Load(ctx, id)
	if errors.Is(err, ErrDraftNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, apperr.Unavailable("wizard.load", err)
	}
	if st.OwnerID != ownerID {
		return nil, ErrDraftNotFound
	}
	return Restore(st), nil
}

func (s *Service) view(ctx context.Context, st State) View {
	v := View{State: st, CanSubmit: st.CanSubmit(), Stages: stageNames[:], PhotoURLs: make([]string, 0, len(st.Draft.Photos))}
	for _, p := range st.Draft.Photos {
		url, err := s.blobs.PresignGet(ctx, p.Key, s.presignTTL)
		if err != nil {
			logging.NewLogger(ctx).LogWarnf("wizard.view", "presign %s: %v", p.Key, err)
			url = ""
		}
		v.PhotoURLs = append(v.PhotoURLs, url)
	}
	return v
}

func (s *Service) deleteBlobs(ctx context.Context, photos []Photo) {
	for _, p := range photos {
		if err := s.blobs.Delete(ctx, p.Key); err != nil {
			logging.NewLogger(ctx).LogWarnf("wizard.delete_blob", "delete %s: %v", p.Key, err)
		}
	}
}
