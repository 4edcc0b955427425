package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ivankudzin/estate-backoffice/internal/domain/enums"
	"github.com/ivankudzin/estate-backoffice/internal/domain/errs"
	"github.com/ivankudzin/estate-backoffice/internal/domain/model"
	"github.com/ivankudzin/estate-backoffice/internal/domain/rules"
)

// Store keeps rows with their raw status strings, like the SQL tables do, and
// normalizes on read. Transactions are serialized and roll back on error.
type Store struct {
	mu    sync.Mutex
	state state
}

type state struct {
	listings   map[uuid.UUID]model.Listing
	reports    map[uuid.UUID]model.Report
	complaints map[uuid.UUID]model.Complaint
	audit      []model.AuditEntry
	strikes    []model.Strike
	chats      map[int64]int64
}

// Tx is the transactional view handed to InTx callbacks.
type Tx struct {
	*state
}

func NewStore() *Store {
	return &Store{state: state{
		listings:   make(map[uuid.UUID]model.Listing),
		reports:    make(map[uuid.UUID]model.Report),
		complaints: make(map[uuid.UUID]model.Complaint),
		chats:      make(map[int64]int64),
	}}
}

func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(&Tx{state: &s.state}); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// PutListing stores a listing as-is, including a legacy raw status.
func (s *Store) PutListing(listing model.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.listings[listing.ID] = listing
}

func (s *Store) PutReport(report model.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reports[report.ID] = report
}

func (s *Store) PutComplaint(complaint model.Complaint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.complaints[complaint.ID] = complaint
}

func (s *Store) PutTelegramChat(userID, chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.chats[userID] = chatID
}

func (s *Store) GetListing(ctx context.Context, id uuid.UUID) (model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetListing(ctx, id)
}

func (s *Store) ListListings(_ context.Context, filter model.ListingFilter) ([]model.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Listing, 0)
	for _, l := range s.state.listings {
		if l.DeletedAt != nil {
			continue
		}
		if len(filter.StatusesRaw) > 0 && !rules.MatchesAliases(string(l.Status), filter.StatusesRaw) {
			continue
		}
		if filter.OwnerID > 0 && l.OwnerID != filter.OwnerID {
			continue
		}
		out = append(out, normalizeListing(l))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limit(out, filter.Limit), nil
}

func (s *Store) GetReport(ctx context.Context, id uuid.UUID) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetReport(ctx, id)
}

func (s *Store) ListReports(_ context.Context, filter model.CaseFilter) ([]model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Report, 0)
	for _, r := range s.state.reports {
		if len(filter.StatusesRaw) > 0 && !rules.MatchesAliases(string(r.Status), filter.StatusesRaw) {
			continue
		}
		if filter.ListingID != nil && r.ListingID != *filter.ListingID {
			continue
		}
		out = append(out, normalizeReport(r))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limit(out, filter.Limit), nil
}

func (s *Store) InsertReport(ctx context.Context, report model.Report) (model.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.InsertReport(ctx, report)
}

func (s *Store) GetComplaint(ctx context.Context, id uuid.UUID) (model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.GetComplaint(ctx, id)
}

func (s *Store) ListComplaints(_ context.Context, filter model.CaseFilter) ([]model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Complaint, 0)
	for _, c := range s.state.complaints {
		if len(filter.StatusesRaw) > 0 && !rules.MatchesAliases(string(c.Status), filter.StatusesRaw) {
			continue
		}
		out = append(out, normalizeComplaint(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return limit(out, filter.Limit), nil
}

func (s *Store) InsertComplaint(_ context.Context, complaint model.Complaint) (model.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if complaint.Status == "" {
		complaint.Status = enums.CaseStatusNew
	}
	complaint.Version = 1
	s.state.complaints[complaint.ID] = complaint
	return normalizeComplaint(complaint), nil
}

func (s *Store) ListAudit(_ context.Context, limitN int) ([]model.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.AuditEntry, 0, len(s.state.audit))
	for i := len(s.state.audit) - 1; i >= 0; i-- {
		out = append(out, s.state.audit[i])
	}
	return limit(out, limitN), nil
}

func (s *Store) ListStrikes(_ context.Context, ownerID int64) ([]model.Strike, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Strike, 0)
	for _, strike := range s.state.strikes {
		if strike.OwnerID == ownerID {
			out = append(out, strike)
		}
	}
	return out, nil
}

func (s *Store) TelegramChatID(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	chatID, ok := s.state.chats[userID]
	if !ok {
		return 0, errs.NotFound("user %d has no telegram chat", userID)
	}
	return chatID, nil
}

// StatusCounts groups live rows of a queue by raw status.
func (s *Store) StatusCounts(_ context.Context, category enums.Category) ([]model.StatusCount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	type key struct {
		status   string
		awaiting bool
	}
	grouped := make(map[key]int64)
	switch category {
	case enums.CategoryListings:
		for _, l := range s.state.listings {
			if l.DeletedAt == nil {
				grouped[key{status: string(l.Status)}]++
			}
		}
	case enums.CategoryReports:
		for _, r := range s.state.reports {
			grouped[key{status: string(r.Status), awaiting: normalizeReport(r).AwaitingDecision()}]++
		}
	case enums.CategoryComplaints:
		for _, c := range s.state.complaints {
			grouped[key{status: string(c.Status)}]++
		}
	default:
		return nil, errs.Validation("unknown queue %q", category)
	}

	out := make([]model.StatusCount, 0, len(grouped))
	for k, n := range grouped {
		out = append(out, model.StatusCount{Status: k.status, AwaitingDecision: k.awaiting, Count: n})
	}
	return out, nil
}

func (st *state) GetListing(_ context.Context, id uuid.UUID) (model.Listing, error) {
	l, ok := st.listings[id]
	if !ok || l.DeletedAt != nil {
		return model.Listing{}, errs.NotFound("listing %s not found", id)
	}
	return normalizeListing(l), nil
}

func (st *state) UpdateListingStatus(_ context.Context, upd model.ListingStatusUpdate) (model.Listing, error) {
	l, err := st.casListing(upd.ID, upd.FromRaw)
	if err != nil {
		return model.Listing{}, err
	}

	l.Status = upd.To
	if upd.RejectionReason != nil {
		l.RejectionReason = *upd.RejectionReason
	}
	if upd.ReviewerID != nil {
		l.ReviewerID = upd.ReviewerID
	}
	if upd.ReviewedAt != nil {
		l.ReviewedAt = upd.ReviewedAt
	}
	l.UpdatedAt = upd.UpdatedAt
	st.listings[l.ID] = l
	return normalizeListing(l), nil
}

func (st *state) TombstoneListing(_ context.Context, id uuid.UUID, fromRaw []string, at time.Time) (model.Listing, error) {
	l, err := st.casListing(id, fromRaw)
	if err != nil {
		return model.Listing{}, err
	}

	deletedAt := at
	l.DeletedAt = &deletedAt
	l.UpdatedAt = at
	st.listings[id] = l
	return normalizeListing(l), nil
}

func (st *state) UpdateDealStatus(_ context.Context, upd model.DealStatusUpdate) (model.Listing, error) {
	l, err := st.casListing(upd.ID, upd.FromRaw)
	if err != nil {
		return model.Listing{}, err
	}
	if l.DealStatus != upd.FromDeal {
		return model.Listing{}, errs.InvalidTransition("listing %s deal status changed concurrently", upd.ID)
	}

	l.DealStatus = upd.To
	l.UpdatedAt = upd.UpdatedAt
	st.listings[l.ID] = l
	return normalizeListing(l), nil
}

func (st *state) casListing(id uuid.UUID, fromRaw []string) (model.Listing, error) {
	l, ok := st.listings[id]
	if !ok || l.DeletedAt != nil {
		return model.Listing{}, errs.NotFound("listing %s not found", id)
	}
	if !rules.MatchesAliases(string(l.Status), fromRaw) {
		return model.Listing{}, errs.InvalidTransition("listing %s status changed concurrently", id)
	}
	return l, nil
}

func (st *state) GetReport(_ context.Context, id uuid.UUID) (model.Report, error) {
	r, ok := st.reports[id]
	if !ok {
		return model.Report{}, errs.NotFound("report %s not found", id)
	}
	return normalizeReport(r), nil
}

func (st *state) InsertReport(_ context.Context, report model.Report) (model.Report, error) {
	l, ok := st.listings[report.ListingID]
	if !ok || l.DeletedAt != nil {
		return model.Report{}, errs.NotFound("listing %s not found", report.ListingID)
	}
	if report.Status == "" {
		report.Status = enums.CaseStatusNew
	}
	report.Version = 1
	st.reports[report.ID] = report
	return normalizeReport(report), nil
}

func (st *state) UpdateReport(_ context.Context, upd model.CaseUpdate) (model.Report, error) {
	r, ok := st.reports[upd.ID]
	if !ok {
		return model.Report{}, errs.NotFound("report %s not found", upd.ID)
	}
	if !rules.MatchesAliases(string(r.Status), upd.FromRaw) || r.Version != upd.Version {
		return model.Report{}, errs.InvalidTransition("report %s changed concurrently", upd.ID)
	}

	r.Status = upd.To
	if upd.ActionTaken != nil {
		r.ActionTaken = *upd.ActionTaken
	}
	if upd.Note != nil {
		r.ActionNote = *upd.Note
	}
	if upd.ResolvedBy != nil {
		r.ResolvedBy = upd.ResolvedBy
	}
	if upd.ReviewStart != nil {
		r.ReviewStartedAt = upd.ReviewStart
	}
	if upd.ResolvedAt != nil {
		r.ResolvedAt = upd.ResolvedAt
	}
	if upd.DecidedAt != nil {
		r.DecidedAt = upd.DecidedAt
	}
	r.Version++
	r.UpdatedAt = upd.UpdatedAt
	st.reports[r.ID] = r
	return normalizeReport(r), nil
}

func (st *state) ListListingReports(_ context.Context, listingID uuid.UUID) ([]model.Report, error) {
	out := make([]model.Report, 0)
	for _, r := range st.reports {
		if r.ListingID == listingID {
			out = append(out, normalizeReport(r))
		}
	}
	return out, nil
}

func (st *state) GetComplaint(_ context.Context, id uuid.UUID) (model.Complaint, error) {
	c, ok := st.complaints[id]
	if !ok {
		return model.Complaint{}, errs.NotFound("complaint %s not found", id)
	}
	return normalizeComplaint(c), nil
}

func (st *state) UpdateComplaint(_ context.Context, upd model.CaseUpdate) (model.Complaint, error) {
	c, ok := st.complaints[upd.ID]
	if !ok {
		return model.Complaint{}, errs.NotFound("complaint %s not found", upd.ID)
	}
	if !rules.MatchesAliases(string(c.Status), upd.FromRaw) || c.Version != upd.Version {
		return model.Complaint{}, errs.InvalidTransition("complaint %s changed concurrently", upd.ID)
	}

	c.Status = upd.To
	if upd.Note != nil {
		c.AdminNote = *upd.Note
	}
	if upd.ResolvedBy != nil {
		c.ResolvedBy = upd.ResolvedBy
	}
	if upd.ReviewStart != nil {
		c.ReviewStartedAt = upd.ReviewStart
	}
	if upd.ResolvedAt != nil {
		c.ResolvedAt = upd.ResolvedAt
	}
	c.Version++
	c.UpdatedAt = upd.UpdatedAt
	st.complaints[c.ID] = c
	return normalizeComplaint(c), nil
}

func (st *state) InsertAudit(_ context.Context, entry model.AuditEntry) error {
	st.audit = append(st.audit, entry)
	return nil
}

func (st *state) InsertStrike(_ context.Context, strike model.Strike) error {
	st.strikes = append(st.strikes, strike)
	return nil
}

func (st *state) clone() state {
	out := state{
		listings:   make(map[uuid.UUID]model.Listing, len(st.listings)),
		reports:    make(map[uuid.UUID]model.Report, len(st.reports)),
		complaints: make(map[uuid.UUID]model.Complaint, len(st.complaints)),
		audit:      slices.Clone(st.audit),
		strikes:    slices.Clone(st.strikes),
		chats:      make(map[int64]int64, len(st.chats)),
	}
	for k, v := range st.listings {
		out.listings[k] = v
	}
	for k, v := range st.reports {
		out.reports[k] = v
	}
	for k, v := range st.complaints {
		out.complaints[k] = v
	}
	for k, v := range st.chats {
		out.chats[k] = v
	}
	return out
}

func normalizeListing(l model.Listing) model.Listing {
	l.Status = rules.NormalizeListingStatus(string(l.Status))
	l.MediaKeys = slices.Clone(l.MediaKeys)
	return l
}

func normalizeReport(r model.Report) model.Report {
	r.Status = rules.NormalizeCaseStatus(string(r.Status))
	return r
}

func normalizeComplaint(c model.Complaint) model.Complaint {
	c.Status = rules.NormalizeCaseStatus(string(c.Status))
	return c
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
