package reports

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/repo/memory"
	"github.com/ivankudzin/estate-backoffice/internal/services/access"
	listingsvc "github.com/ivankudzin/estate-backoffice/internal/services/listings"
)

var moderator = model.Operator{
	ID:          21,
	Role:        enums.RoleModerator,
	Permissions: []enums.Category{enums.CategoryListings, enums.CategoryReports, enums.CategoryComplaints},
}

type effectsStub struct {
	mu       sync.Mutex
	released []uuid.UUID
	purged   []uuid.UUID
	notified map[int64][]string
}

func (e *effectsStub) ReleaseSlot(_ context.Context, id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.released = append(e.released, id)
}

func (e *effectsStub) PurgeMedia(_ context.Context, id uuid.UUID, _ []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.purged = append(e.purged, id)
}

func (e *effectsStub) NotifyOwner(_ context.Context, ownerID int64, message string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.notified == nil {
		e.notified = make(map[int64][]string)
	}
	e.notified[ownerID] = append(e.notified[ownerID], message)
}

type failingStrikeTx struct {
	*memory.Tx
}

func (failingStrikeTx) InsertStrike(context.Context, model.Strike) error {
	return errors.New("strike table unavailable")
}

type fixture struct {
	svc     *Service
	store   *memory.Store
	effects *effectsStub
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	effects := &effectsStub{}
	tx := func(ctx context.Context, fn func(Store) error) error {
		return store.InTx(ctx, func(tx *memory.Tx) error { return fn(tx) })
	}
	svc := NewService(access.NewGuard(), store, tx, effects, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 2, 8, 30, 0, 0, time.UTC) }
	return fixture{svc: svc, store: store, effects: effects}
}

func (f fixture) listing(t *testing.T, status enums.ListingStatus) model.Listing {
	t.Helper()
	listing := model.Listing{
		ID:         uuid.New(),
		OwnerID:    700,
		Title:      "Detached house with garden",
		Status:     status,
		DealStatus: enums.DealStatusActive,
		MediaKeys:  []string{"listings/house.jpg"},
	}
	f.store.PutListing(listing)
	return listing
}

func (f fixture) report(t *testing.T, listingID uuid.UUID) model.Report {
	t.Helper()
	report, err := f.svc.FileReport(context.Background(), FileReportInput{
		ListingID:  listingID,
		ReasonCode: "fraud",
		Details:    "asks for prepayment",
	})
	if err != nil {
		t.Fatalf("file report: %v", err)
	}
	if report.Status != enums.CaseStatusNew {
		t.Fatalf("filed report must be new, got %s", report.Status)
	}
	return report
}

func (f fixture) listingStatus(t *testing.T, id uuid.UUID) enums.ListingStatus {
	t.Helper()
	listing, err := f.store.GetListing(context.Background(), id)
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	return listing.Status
}

func TestCloseWithHideHidesListing(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)

	closed, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionHide, "verified violation")
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if closed.Status != enums.CaseStatusClosed || closed.ActionTaken != enums.ListingActionHide {
		t.Fatalf("unexpected report: %+v", closed)
	}
	if !closed.AwaitingDecision() {
		t.Fatalf("report that hid a listing must await a final decision")
	}
	if got := f.listingStatus(t, listing.ID); got != enums.ListingStatusHidden {
		t.Fatalf("listing must be hidden, got %s", got)
	}
	if len(f.effects.released) != 1 {
		t.Fatalf("slot must be released once, got %d", len(f.effects.released))
	}
	if msgs := f.effects.notified[listing.OwnerID]; len(msgs) != 1 || msgs[0] != "verified violation" {
		t.Fatalf("owner must receive the note, got %v", msgs)
	}
}

func TestRestoreAfterHide(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)
	if _, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionHide, "verified violation"); err != nil {
		t.Fatalf("close: %v", err)
	}

	restored, err := f.svc.Restore(context.Background(), moderator, report.ID, "apologies, listing reinstated")
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if restored.Status != enums.CaseStatusDismissed || restored.ActionTaken != enums.ListingActionRestore {
		t.Fatalf("unexpected report after restore: %+v", restored)
	}
	if restored.DecidedAt == nil || restored.AwaitingDecision() {
		t.Fatalf("restore must record the decision")
	}
	if got := f.listingStatus(t, listing.ID); got != enums.ListingStatusApproved {
		t.Fatalf("listing must be approved again, got %s", got)
	}
	msgs := f.effects.notified[listing.OwnerID]
	if len(msgs) != 2 || msgs[1] != "apologies, listing reinstated" {
		t.Fatalf("owner must receive the restore note, got %v", msgs)
	}

	if _, err := f.svc.Restore(context.Background(), moderator, report.ID, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("second restore must fail with invalid transition, got %v", err)
	}
}

func TestDirectShowOrDeleteBlockedWhileReportAwaitsDecision(t *testing.T) {
	f := newFixture(t)
	listings := listingsvc.NewService(access.NewGuard(), f.store, func(ctx context.Context, fn func(listingsvc.Store) error) error {
		return f.store.InTx(ctx, func(tx *memory.Tx) error { return fn(tx) })
	}, nil, nil)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)
	if _, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionHide, "verified violation"); err != nil {
		t.Fatalf("close: %v", err)
	}

	if _, err := listings.Show(context.Background(), moderator, listing.ID); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("show must fail while the report awaits a decision, got %v", err)
	}
	if _, err := listings.Delete(context.Background(), moderator, listing.ID); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("delete must fail while the report awaits a decision, got %v", err)
	}
	if got := f.listingStatus(t, listing.ID); got != enums.ListingStatusHidden {
		t.Fatalf("listing must stay hidden, got %s", got)
	}

	if _, err := f.svc.Restore(context.Background(), moderator, report.ID, ""); err != nil {
		t.Fatalf("restore must still resolve the report: %v", err)
	}
	current, err := f.store.GetReport(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if current.AwaitingDecision() {
		t.Fatalf("report must be decided after restore")
	}

	if _, err := listings.Hide(context.Background(), moderator, listing.ID); err != nil {
		t.Fatalf("hide: %v", err)
	}
	if _, err := listings.Show(context.Background(), moderator, listing.ID); err != nil {
		t.Fatalf("show after the decision must succeed: %v", err)
	}
}

func TestDeleteFinalRemovesListingAndRecordsStrike(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusHidden)
	report := f.report(t, listing.ID)

	closed, err := f.svc.DeleteFinal(context.Background(), moderator, report.ID, "repeat violation")
	if err != nil {
		t.Fatalf("delete final: %v", err)
	}
	if closed.Status != enums.CaseStatusClosed || closed.ActionTaken != enums.ListingActionDelete {
		t.Fatalf("unexpected report: %+v", closed)
	}
	if _, err := f.store.GetListing(context.Background(), listing.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("listing must be gone, got %v", err)
	}

	strikes, _ := f.store.ListStrikes(context.Background(), listing.OwnerID)
	if len(strikes) != 1 || strikes[0].ReportID != report.ID {
		t.Fatalf("expected one strike for the report, got %+v", strikes)
	}
	if len(f.effects.purged) != 1 || len(f.effects.released) != 1 {
		t.Fatalf("cleanup must be scheduled: purged=%v released=%v", f.effects.purged, f.effects.released)
	}
}

func TestOrdinaryResolutionBlockedWhileListingHidden(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	first := f.report(t, listing.ID)
	second := f.report(t, listing.ID)

	if _, err := f.svc.Close(context.Background(), moderator, first.ID, enums.ListingActionHide, ""); err != nil {
		t.Fatalf("close with hide: %v", err)
	}

	if _, err := f.svc.Dismiss(context.Background(), moderator, second.ID, "nothing found"); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("dismiss on hidden listing: expected invalid transition, got %v", err)
	}
	if _, err := f.svc.Close(context.Background(), moderator, second.ID, enums.ListingActionNone, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("close on hidden listing: expected invalid transition, got %v", err)
	}
	if _, err := f.svc.Close(context.Background(), moderator, first.ID, enums.ListingActionNone, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("re-close awaiting report: expected invalid transition, got %v", err)
	}

	if _, err := f.svc.DeleteFinal(context.Background(), moderator, second.ID, "confirmed"); err != nil {
		t.Fatalf("final decision through a sibling report: %v", err)
	}
	settled, err := f.store.GetReport(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if settled.AwaitingDecision() {
		t.Fatalf("sibling report must stop awaiting a decision")
	}
}

func TestFinalDecisionRequiresHiddenListing(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)

	if _, err := f.svc.Restore(context.Background(), moderator, report.ID, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("restore on visible listing: expected invalid transition, got %v", err)
	}
	if _, err := f.svc.DeleteFinal(context.Background(), moderator, report.ID, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("delete final on visible listing: expected invalid transition, got %v", err)
	}
	if got := f.listingStatus(t, listing.ID); got != enums.ListingStatusApproved {
		t.Fatalf("listing must stay approved, got %s", got)
	}
}

func TestCloseRollsBackWhenListingActionFails(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusPending)
	report := f.report(t, listing.ID)

	_, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionHide, "")
	if !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition from listing hide, got %v", err)
	}

	got, err := f.store.GetReport(context.Background(), report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got.Status != enums.CaseStatusNew {
		t.Fatalf("report must stay new after rollback, got %s", got.Status)
	}
	if len(f.effects.released) != 0 {
		t.Fatalf("no side effects on failed close")
	}
}

func TestDeleteFinalRollsBackWhenStrikeFails(t *testing.T) {
	f := newFixture(t)
	f.svc.tx = func(ctx context.Context, fn func(Store) error) error {
		return f.store.InTx(ctx, func(tx *memory.Tx) error { return fn(failingStrikeTx{Tx: tx}) })
	}
	listing := f.listing(t, enums.ListingStatusHidden)
	report := f.report(t, listing.ID)

	_, err := f.svc.DeleteFinal(context.Background(), moderator, report.ID, "repeat violation")
	if !errors.Is(err, errs.ErrDependency) {
		t.Fatalf("expected dependency failure, got %v", err)
	}
	if got := f.listingStatus(t, listing.ID); got != enums.ListingStatusHidden {
		t.Fatalf("listing must survive a failed final delete, got %s", got)
	}
	if len(f.effects.purged) != 0 {
		t.Fatalf("media must not be purged on rollback")
	}
}

func TestCloseWithDelete(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)

	closed, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionDelete, "")
	if err != nil {
		t.Fatalf("close with delete: %v", err)
	}
	if closed.AwaitingDecision() {
		t.Fatalf("close with delete is final")
	}
	if _, err := f.store.GetListing(context.Background(), listing.ID); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("listing must be deleted, got %v", err)
	}

	other := report
	other.ID = uuid.New()
	other.Status = enums.CaseStatusNew
	other.Version = 1
	f.store.PutReport(other)
	if _, err := f.svc.Dismiss(context.Background(), moderator, other.ID, ""); err != nil {
		t.Fatalf("dismiss report of deleted listing: %v", err)
	}
}

func TestStartReviewAndLegacyStatus(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	legacy := model.Report{
		ID:         uuid.New(),
		ListingID:  listing.ID,
		ReasonCode: enums.ReportReasonSpam,
		Status:     enums.CaseStatus("PENDING"),
		Version:    3,
	}
	f.store.PutReport(legacy)

	reviewing, err := f.svc.StartReview(context.Background(), moderator, legacy.ID)
	if err != nil {
		t.Fatalf("start review on legacy status: %v", err)
	}
	if reviewing.Status != enums.CaseStatusInReview || reviewing.ReviewStartedAt == nil {
		t.Fatalf("unexpected report: %+v", reviewing)
	}
	if _, err := f.svc.StartReview(context.Background(), moderator, legacy.ID); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("second start review: expected invalid transition, got %v", err)
	}
}

func TestCloseValidatesListingAction(t *testing.T) {
	f := newFixture(t)
	listing := f.listing(t, enums.ListingStatusApproved)
	report := f.report(t, listing.ID)

	if _, err := f.svc.Close(context.Background(), moderator, report.ID, enums.ListingActionRestore, ""); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestReportActionsRequireReportsPermission(t *testing.T) {
	f := newFixture(t)
	listingsOnly := model.Operator{ID: 3, Role: enums.RoleModerator, Permissions: []enums.Category{enums.CategoryListings}}

	if _, err := f.svc.Close(context.Background(), listingsOnly, uuid.New(), enums.ListingActionHide, ""); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := f.svc.GetReport(context.Background(), listingsOnly, uuid.New()); !errors.Is(err, errs.ErrForbidden) {
		t.Fatalf("expected forbidden before lookup, got %v", err)
	}
}

func TestFileReportValidation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.svc.FileReport(context.Background(), FileReportInput{ListingID: uuid.New(), ReasonCode: "aliens"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for unknown reason, got %v", err)
	}
	if _, err := f.svc.FileReport(context.Background(), FileReportInput{ListingID: uuid.New(), ReasonCode: "other"}); !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for other without details, got %v", err)
	}
	if _, err := f.svc.FileReport(context.Background(), FileReportInput{ListingID: uuid.New(), ReasonCode: "spam"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("expected not found for unknown listing, got %v", err)
	}
}

func TestComplaintLifecycle(t *testing.T) {
	f := newFixture(t)
	complainant := int64(44)

	complaint, err := f.svc.FileComplaint(context.Background(), FileComplaintInput{
		SubjectUserID: 900,
		ComplainantID: &complainant,
		Reason:        "agent does not answer",
	})
	if err != nil {
		t.Fatalf("file complaint: %v", err)
	}

	if _, err := f.svc.StartComplaintReview(context.Background(), moderator, complaint.ID); err != nil {
		t.Fatalf("start review: %v", err)
	}
	closed, err := f.svc.CloseComplaint(context.Background(), moderator, complaint.ID, "agent warned")
	if err != nil {
		t.Fatalf("close complaint: %v", err)
	}
	if closed.Status != enums.CaseStatusClosed || closed.AdminNote != "agent warned" {
		t.Fatalf("unexpected complaint: %+v", closed)
	}
	if _, err := f.svc.DismissComplaint(context.Background(), moderator, complaint.ID, ""); !errors.Is(err, errs.ErrInvalidTransition) {
		t.Fatalf("dismiss closed complaint: expected invalid transition, got %v", err)
	}
}
