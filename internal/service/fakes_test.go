package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/repository"
)

// In-memory repository fakes. They copy on read and write so tests can
// assert that failed operations leave stored state untouched.

// tick hands out strictly increasing timestamps so created_at ordering is
// deterministic even when two rows are inserted back to back.
var (
	clockMu  sync.Mutex
	clockNow = time.Unix(1700000000, 0)
)

func tick() time.Time {
	clockMu.Lock()
	defer clockMu.Unlock()
	clockNow = clockNow.Add(time.Millisecond)
	return clockNow
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.CreatedAt = tick()
	user.UpdatedAt = user.CreatedAt
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return pgx.ErrNoRows
	}
	user.UpdatedAt = tick()
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if filter.Role != nil && user.Role != *filter.Role {
			continue
		}
		if filter.Status != nil && user.Status != *filter.Status {
			continue
		}
		result = append(result, user)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]domain.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = uuid.NewString()
	customer.CreatedAt = tick()
	r.customers[customer.ID] = *customer
	return nil
}

func (r *fakeCustomerRepo) GetByUserID(_ context.Context, userID string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.UserID == userID {
			c := customer
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeProfessionalRepo struct {
	mu            sync.Mutex
	professionals map[string]domain.Professional
	users         *fakeUserRepo
}

func newFakeProfessionalRepo(users *fakeUserRepo) *fakeProfessionalRepo {
	return &fakeProfessionalRepo{professionals: map[string]domain.Professional{}, users: users}
}

func (r *fakeProfessionalRepo) Create(_ context.Context, prof *domain.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof.ID = uuid.NewString()
	prof.CreatedAt = tick()
	prof.UpdatedAt = prof.CreatedAt
	r.professionals[prof.ID] = *prof
	return nil
}

func (r *fakeProfessionalRepo) Update(_ context.Context, prof *domain.Professional) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.professionals[prof.ID]; !ok {
		return pgx.ErrNoRows
	}
	prof.UpdatedAt = tick()
	r.professionals[prof.ID] = *prof
	return nil
}

func (r *fakeProfessionalRepo) GetByID(_ context.Context, id string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prof, ok := r.professionals[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &prof, nil
}

func (r *fakeProfessionalRepo) GetByUserID(_ context.Context, userID string) (*domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prof := range r.professionals {
		if prof.UserID == userID {
			p := prof
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeProfessionalRepo) List(ctx context.Context, filter repository.ProfessionalFilter) ([]domain.Professional, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Professional
	for _, prof := range r.professionals {
		if filter.ServiceType != nil && prof.ServiceType != *filter.ServiceType {
			continue
		}
		if filter.Approval != nil && prof.Approval != *filter.Approval {
			continue
		}
		if filter.UserStatus != nil && r.users != nil {
			user, err := r.users.GetByID(ctx, prof.UserID)
			if err != nil || user.Status != *filter.UserStatus {
				continue
			}
		}
		result = append(result, prof)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

type fakeServiceRepo struct {
	mu       sync.Mutex
	services map[string]domain.Service
}

func newFakeServiceRepo() *fakeServiceRepo {
	return &fakeServiceRepo{services: map[string]domain.Service{}}
}

func (r *fakeServiceRepo) Create(_ context.Context, service *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	service.ID = uuid.NewString()
	service.CreatedAt = tick()
	service.UpdatedAt = service.CreatedAt
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) Update(_ context.Context, service *domain.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[service.ID]; !ok {
		return pgx.ErrNoRows
	}
	service.UpdatedAt = tick()
	r.services[service.ID] = *service
	return nil
}

func (r *fakeServiceRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.services[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.services, id)
	return nil
}

func (r *fakeServiceRepo) GetByID(_ context.Context, id string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	service, ok := r.services[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &service, nil
}

func (r *fakeServiceRepo) GetByName(_ context.Context, name string) (*domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, service := range r.services {
		if service.Name == name {
			s := service
			return &s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeServiceRepo) List(_ context.Context) ([]domain.Service, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Service
	for _, service := range r.services {
		result = append(result, service)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

type fakeRequestRepo struct {
	mu       sync.Mutex
	requests map[string]domain.ServiceRequest
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{requests: map[string]domain.ServiceRequest{}}
}

func (r *fakeRequestRepo) Create(_ context.Context, request *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	request.ID = uuid.NewString()
	request.CreatedAt = tick()
	request.UpdatedAt = request.CreatedAt
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeRequestRepo) Update(_ context.Context, request *domain.ServiceRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[request.ID]; !ok {
		return pgx.ErrNoRows
	}
	request.UpdatedAt = tick()
	r.requests[request.ID] = *request
	return nil
}

func (r *fakeRequestRepo) GetByID(_ context.Context, id string) (*domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	request, ok := r.requests[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &request, nil
}

func (r *fakeRequestRepo) List(_ context.Context, filter repository.RequestFilter) ([]domain.ServiceRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.ServiceRequest
	for _, request := range r.requests {
		if filter.CustomerID != nil && request.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.ProfessionalID != nil && (request.ProfessionalID == nil || *request.ProfessionalID != *filter.ProfessionalID) {
			continue
		}
		if filter.ServiceID != nil && request.ServiceID != *filter.ServiceID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, request.Status) {
			continue
		}
		result = append(result, request)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestedAt.After(result[j].RequestedAt) })
	return result, nil
}

func (r *fakeRequestRepo) ExistsOpen(_ context.Context, customerID, serviceID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, request := range r.requests {
		if request.CustomerID == customerID && request.ServiceID == serviceID && !request.Status.Terminal() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRequestRepo) CountOpenByService(_ context.Context, serviceID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, request := range r.requests {
		if request.ServiceID == serviceID && !request.Status.Terminal() {
			count++
		}
	}
	return count, nil
}

func containsStatus(statuses []domain.RequestStatus, status domain.RequestStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeHistoryRepo struct {
	mu      sync.Mutex
	entries []domain.RequestHistory
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{}
}

func (r *fakeHistoryRepo) Create(_ context.Context, entry *domain.RequestHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = uuid.NewString()
	entry.CreatedAt = tick()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByRequest(_ context.Context, requestID string, _, _ int) ([]domain.RequestHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.RequestHistory
	for _, entry := range r.entries {
		if entry.RequestID == requestID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeResetRepo struct {
	mu     sync.Mutex
	tokens map[string]repository.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: map[string]repository.PasswordResetToken{}}
}

func (r *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token.ID = uuid.NewString()
	token.CreatedAt = tick()
	r.tokens[token.ID] = *token
	return nil
}

func (r *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, token := range r.tokens {
		if token.Token == tokenStr {
			t := token
			return &t, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.tokens[id]
	if !ok {
		return pgx.ErrNoRows
	}
	now := tick()
	token.UsedAt = &now
	r.tokens[id] = token
	return nil
}
