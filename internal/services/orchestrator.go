package services

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"bitacora-backend/internal/apperr"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/models"
)

// Orchestrator sequences asset uploads and store writes into the
// create/update workflows, and decides when project counts are recomputed.
//
// Every relationship-mutating write recounts the affected projects. Writes
// that touch a single table run the recount in the same transaction; the
// multi-upload project workflow recounts once at the end because uploads
// cannot take part in a database transaction.
type Orchestrator struct {
	store     database.Store
	uploader  assets.Uploader
	recounter *Recounter
	validate  *validator.Validate
	log       *logger.Logger
}

func NewOrchestrator(store database.Store, uploader assets.Uploader, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		store:     store,
		uploader:  uploader,
		recounter: NewRecounter(log),
		validate:  newValidator(),
		log:       log.With("component", "Orchestrator"),
	}
}

func (o *Orchestrator) upload(ctx context.Context, payload assets.Payload, class assets.Classification) (assets.Object, error) {
	if o.uploader == nil {
		return assets.Object{}, apperr.UploadFailed("asset storage not configured", nil)
	}
	obj, err := o.uploader.Upload(ctx, payload, class)
	if err != nil {
		o.log.Error("upload failed", "filename", payload.Filename, "class", string(class), "error", err)
		if apperr.KindOf(err) == apperr.KindUploadFailed {
			return assets.Object{}, err
		}
		return assets.Object{}, apperr.UploadFailed("failed to upload "+payload.Filename, err)
	}
	return obj, nil
}

// discard removes an uploaded object whose row could not be persisted.
// Removal is best-effort: a failure leaves an orphan that is only logged.
func (o *Orchestrator) discard(ctx context.Context, obj assets.Object) {
	if o.uploader == nil || obj.Key == "" {
		return
	}
	if err := o.uploader.Remove(ctx, obj.Key); err != nil {
		o.log.Warn("failed to remove orphaned object", "key", obj.Key, "error", err)
		return
	}
	o.log.Info("removed orphaned object", "key", obj.Key)
}

// recountAll recomputes every distinct valid project id in ids. Projects
// are locked in id order so two transactions touching the same pair of
// projects cannot deadlock.
func (o *Orchestrator) recountAll(ctx context.Context, repo database.Repository, ids ...uuid.NullUUID) error {
	seen := make(map[uuid.UUID]bool, len(ids))
	distinct := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !id.Valid || seen[id.UUID] {
			continue
		}
		seen[id.UUID] = true
		distinct = append(distinct, id.UUID)
	}
	sort.Slice(distinct, func(i, j int) bool {
		return bytes.Compare(distinct[i][:], distinct[j][:]) < 0
	})
	for _, id := range distinct {
		if _, err := o.recounter.RecomputeProjectCounts(ctx, repo, id); err != nil {
			return err
		}
	}
	return nil
}

// recount runs a single project recount in its own transaction.
func (o *Orchestrator) recount(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	var project *models.Project
	err := o.store.WithTx(ctx, func(repo database.Repository) error {
		recounted, err := o.recounter.RecomputeProjectCounts(ctx, repo, projectID)
		if err != nil {
			return err
		}
		project = recounted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// RecomputeProjectCounts is exposed for callers that want to force a
// recount outside any write.
func (o *Orchestrator) RecomputeProjectCounts(ctx context.Context, projectID uuid.UUID) (*models.Project, error) {
	return o.recount(ctx, projectID)
}

func parseOptionalUUID(field, s string) (uuid.NullUUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return uuid.NullUUID{}, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.NullUUID{}, apperr.Validation("%s must be a UUID", field)
	}
	return uuid.NullUUID{UUID: id, Valid: true}, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// publicMessage is what a caller may see about err.
func publicMessage(err error) string {
	e := apperr.From(err)
	if e.Public() && e.Message != "" {
		return e.Message
	}
	return e.Kind.String()
}
