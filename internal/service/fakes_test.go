package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/goodhive/onboarding-service/internal/domain"
	"github.com/goodhive/onboarding-service/internal/repository"
)

// memState is one snapshot of the moderation tables.
type memState struct {
	users     map[string]domain.User
	talents   map[string]domain.TalentProfile
	companies map[string]domain.CompanyProfile
	referrals map[string]domain.Referral
	history   []domain.ModerationEntry
}

func newMemState() *memState {
	return &memState{
		users:     map[string]domain.User{},
		talents:   map[string]domain.TalentProfile{},
		companies: map[string]domain.CompanyProfile{},
		referrals: map[string]domain.Referral{},
	}
}

func (s *memState) clone() *memState {
	out := newMemState()
	for k, v := range s.users {
		out.users[k] = v
	}
	for k, v := range s.talents {
		v.Skills = append([]string(nil), v.Skills...)
		out.talents[k] = v
	}
	for k, v := range s.companies {
		out.companies[k] = v
	}
	for k, v := range s.referrals {
		v.ApprovedTalents = append([]string(nil), v.ApprovedTalents...)
		out.referrals[k] = v
	}
	out.history = append([]domain.ModerationEntry(nil), s.history...)
	return out
}

// memDB is a transactional in-memory backend: WithinTx works on a copy and
// swaps it in only when the callback succeeds.
type memDB struct {
	mu    sync.Mutex
	state *memState
	fail  map[string]error
}

func newMemDB() *memDB {
	return &memDB{state: newMemState(), fail: map[string]error{}}
}

func (db *memDB) WithinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Repositories) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := db.state.clone()
	if err := fn(ctx, db.repos(work)); err != nil {
		return err
	}
	db.state = work
	return nil
}

func (db *memDB) repos(state *memState) repository.Repositories {
	return repository.Repositories{
		Users:     &memUsers{db: db, state: state},
		Talents:   &memTalents{db: db, state: state},
		Companies: &memCompanies{db: db, state: state},
		Referrals: &memReferrals{db: db, state: state},
		History:   &memHistory{db: db, state: state},
	}
}

// snapshot returns a copy of the committed state.
func (db *memDB) snapshot() *memState {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.state.clone()
}

func (db *memDB) failOn(op string, err error) {
	db.fail[op] = err
}

func (db *memDB) injected(op string) error {
	return db.fail[op]
}

func (db *memDB) seedTalent(user domain.User, talent domain.TalentProfile) {
	db.state.users[user.UserID] = user
	db.state.talents[talent.UserID] = talent
}

func (db *memDB) seedCompany(user domain.User, company domain.CompanyProfile) {
	db.state.users[user.UserID] = user
	db.state.companies[company.UserID] = company
}

func (db *memDB) seedReferral(ref domain.Referral) {
	db.state.referrals[ref.ReferralCode] = ref
}

type memUsers struct {
	db    *memDB
	state *memState
}

func (r *memUsers) st() *memState {
	if r.state != nil {
		return r.state
	}
	return r.db.state
}

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	r.st().users[user.UserID] = *user
	return nil
}

func (r *memUsers) GetByID(_ context.Context, userID string) (*domain.User, error) {
	if err := r.db.injected("users.GetByID"); err != nil {
		return nil, err
	}
	user, ok := r.st().users[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *memUsers) GetByIDForUpdate(ctx context.Context, userID string) (*domain.User, error) {
	return r.GetByID(ctx, userID)
}

func (r *memUsers) UpdateStatuses(_ context.Context, userID string, statuses map[domain.Role]domain.ApprovalStatus) error {
	if err := r.db.injected("users.UpdateStatuses"); err != nil {
		return err
	}
	user, ok := r.st().users[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	for role, status := range statuses {
		switch role {
		case domain.RoleTalent:
			user.TalentStatus = status
		case domain.RoleMentor:
			user.MentorStatus = status
		case domain.RoleRecruiter:
			user.RecruiterStatus = status
		}
	}
	r.st().users[userID] = user
	return nil
}

type memTalents struct {
	db    *memDB
	state *memState
}

func (r *memTalents) st() *memState {
	if r.state != nil {
		return r.state
	}
	return r.db.state
}

func (r *memTalents) Create(_ context.Context, talent *domain.TalentProfile) error {
	r.st().talents[talent.UserID] = *talent
	return nil
}

func (r *memTalents) GetByUserID(_ context.Context, userID string) (*domain.TalentProfile, error) {
	talent, ok := r.st().talents[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &talent, nil
}

func (r *memTalents) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.TalentProfile, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memTalents) SetModeration(_ context.Context, userID string, approved, inReview bool, flags domain.ApprovalFlags) error {
	if err := r.db.injected("talents.SetModeration"); err != nil {
		return err
	}
	talent, ok := r.st().talents[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	talent.Approved, talent.InReview = approved, inReview
	if flags.Talent != nil {
		talent.Talent = *flags.Talent
	}
	if flags.Mentor != nil {
		talent.Mentor = *flags.Mentor
	}
	if flags.Recruiter != nil {
		talent.Recruiter = *flags.Recruiter
	}
	r.st().talents[userID] = talent
	return nil
}

func (r *memTalents) ListPending(_ context.Context, _, _ int) ([]domain.TalentProfile, error) {
	if err := r.db.injected("talents.ListPending"); err != nil {
		return nil, err
	}
	var out []domain.TalentProfile
	for _, t := range r.st().talents {
		if t.InReview {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTalents) ListApproved(_ context.Context, _ repository.TalentFilter) ([]domain.TalentProfile, error) {
	if err := r.db.injected("talents.ListApproved"); err != nil {
		return nil, err
	}
	var out []domain.TalentProfile
	for _, t := range r.st().talents {
		if t.Approved {
			out = append(out, t)
		}
	}
	return out, nil
}

type memCompanies struct {
	db    *memDB
	state *memState
}

func (r *memCompanies) st() *memState {
	if r.state != nil {
		return r.state
	}
	return r.db.state
}

func (r *memCompanies) Create(_ context.Context, company *domain.CompanyProfile) error {
	r.st().companies[company.UserID] = *company
	return nil
}

func (r *memCompanies) GetByUserID(_ context.Context, userID string) (*domain.CompanyProfile, error) {
	company, ok := r.st().companies[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &company, nil
}

func (r *memCompanies) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.CompanyProfile, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *memCompanies) SetModeration(_ context.Context, userID string, approved, inReview bool) error {
	if err := r.db.injected("companies.SetModeration"); err != nil {
		return err
	}
	company, ok := r.st().companies[userID]
	if !ok {
		return pgx.ErrNoRows
	}
	company.Approved, company.InReview = approved, inReview
	r.st().companies[userID] = company
	return nil
}

func (r *memCompanies) ListPending(_ context.Context, _, _ int) ([]domain.CompanyProfile, error) {
	var out []domain.CompanyProfile
	for _, c := range r.st().companies {
		if c.InReview {
			out = append(out, c)
		}
	}
	return out, nil
}

type memReferrals struct {
	db    *memDB
	state *memState
}

func (r *memReferrals) st() *memState {
	if r.state != nil {
		return r.state
	}
	return r.db.state
}

func (r *memReferrals) Create(_ context.Context, referral *domain.Referral) error {
	if err := r.db.injected("referrals.Create"); err != nil {
		return err
	}
	r.st().referrals[referral.ReferralCode] = *referral
	return nil
}

func (r *memReferrals) GetByCode(_ context.Context, code string) (*domain.Referral, error) {
	ref, ok := r.st().referrals[code]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &ref, nil
}

func (r *memReferrals) GetByWallet(_ context.Context, wallet string) (*domain.Referral, error) {
	for _, ref := range r.st().referrals {
		if ref.WalletAddress == wallet {
			ref := ref
			return &ref, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memReferrals) CreditApproval(_ context.Context, code, userID string) (bool, error) {
	if err := r.db.injected("referrals.CreditApproval"); err != nil {
		return false, err
	}
	ref, ok := r.st().referrals[code]
	if !ok {
		return false, pgx.ErrNoRows
	}
	if ref.HasApproved(userID) {
		return false, nil
	}
	ref.ApprovedTalents = append(ref.ApprovedTalents, userID)
	r.st().referrals[code] = ref
	return true, nil
}

type memHistory struct {
	db    *memDB
	state *memState
}

func (r *memHistory) st() *memState {
	if r.state != nil {
		return r.state
	}
	return r.db.state
}

func (r *memHistory) Create(_ context.Context, entry *domain.ModerationEntry) error {
	if err := r.db.injected("history.Create"); err != nil {
		return err
	}
	entry.ID = fmt.Sprintf("entry-%d", len(r.st().history)+1)
	r.st().history = append(r.st().history, *entry)
	return nil
}

func (r *memHistory) ListByUser(_ context.Context, userID string) ([]domain.ModerationEntry, error) {
	if err := r.db.injected("history.ListByUser"); err != nil {
		return nil, err
	}
	var out []domain.ModerationEntry
	for _, e := range r.st().history {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// committedRepos exposes the committed state through the non-transactional
// repository contracts; it follows later commits.
func (db *memDB) committedRepos() repository.Repositories {
	return db.repos(nil)
}

type fakeStatusSync struct {
	talents   repository.DriftCounts
	companies repository.DriftCounts
	err       error
}

func (f *fakeStatusSync) TalentDrift(context.Context) (repository.DriftCounts, error) {
	return f.talents, f.err
}

func (f *fakeStatusSync) CompanyDrift(context.Context) (repository.DriftCounts, error) {
	return f.companies, f.err
}

type fakeAdmins struct {
	byEmail map[string]*domain.Admin
	err     error
}

func (f *fakeAdmins) Create(_ context.Context, admin *domain.Admin) error {
	if f.err != nil {
		return f.err
	}
	admin.ID = "admin-" + admin.Email
	f.byEmail[admin.Email] = admin
	return nil
}

func (f *fakeAdmins) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	if f.err != nil {
		return nil, f.err
	}
	admin, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return admin, nil
}
