package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dafibh/budgetly/budgetly-backend/internal/domain"
	"github.com/dafibh/budgetly/budgetly-backend/internal/util"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockStore holds the rows shared by the mock repositories so that joins,
// aggregates and cascades behave like the PostgreSQL implementation
type MockStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*domain.User
	tokens       map[uuid.UUID]*domain.AuthToken
	categories   map[int32]*domain.Category
	transactions map[int32]*domain.Transaction
	budgets      map[int32]*domain.Budget

	nextCategoryID    int32
	nextTransactionID int32
	nextBudgetID      int32

	// clock advances by one second per insert to give stable created_at ordering
	clock time.Time

	Users        *MockUserRepository
	Tokens       *MockAuthTokenRepository
	Categories   *MockCategoryRepository
	Transactions *MockTransactionRepository
	Budgets      *MockBudgetRepository
}

// NewMockStore creates an empty store with repositories bound to it
func NewMockStore() *MockStore {
	s := &MockStore{
		users:             make(map[uuid.UUID]*domain.User),
		tokens:            make(map[uuid.UUID]*domain.AuthToken),
		categories:        make(map[int32]*domain.Category),
		transactions:      make(map[int32]*domain.Transaction),
		budgets:           make(map[int32]*domain.Budget),
		nextCategoryID:    1,
		nextTransactionID: 1,
		nextBudgetID:      1,
		clock:             time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
	s.Users = &MockUserRepository{store: s}
	s.Tokens = &MockAuthTokenRepository{store: s}
	s.Categories = &MockCategoryRepository{store: s}
	s.Transactions = &MockTransactionRepository{store: s}
	s.Budgets = &MockBudgetRepository{store: s}
	return s
}

func (s *MockStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *MockStore) ownedCategory(userID uuid.UUID, id int32) (*domain.Category, bool) {
	c, ok := s.categories[id]
	if !ok || c.UserID != userID {
		return nil, false
	}
	return c, true
}

func (s *MockStore) categoryView(c *domain.Category) *domain.Category {
	out := *c
	out.TransactionCount = 0
	for _, t := range s.transactions {
		if t.UserID == c.UserID && t.CategoryID != nil && *t.CategoryID == c.ID {
			out.TransactionCount++
		}
	}
	return &out
}

func (s *MockStore) transactionView(t *domain.Transaction) *domain.Transaction {
	out := *t
	out.CategoryName = nil
	out.CategoryKind = nil
	if t.CategoryID != nil {
		id := *t.CategoryID
		out.CategoryID = &id
		if c, ok := s.categories[id]; ok {
			name := c.Name
			kind := c.Kind
			out.CategoryName = &name
			out.CategoryKind = &kind
		}
	}
	return &out
}

func (s *MockStore) budgetView(b *domain.Budget) *domain.Budget {
	out := *b
	if c, ok := s.categories[b.CategoryID]; ok {
		out.CategoryName = c.Name
	}
	spent := decimal.Zero
	for _, t := range s.transactions {
		if t.UserID != b.UserID || t.CategoryID == nil || *t.CategoryID != b.CategoryID {
			continue
		}
		if util.DateInRange(t.Date, &b.StartDate, &b.EndDate) {
			spent = spent.Add(t.Amount)
		}
	}
	out.Spent = spent
	return &out
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	store *MockStore
}

// Create creates a new user
func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.users {
		if u.Username == user.Username || strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	created := *user
	created.ID = uuid.New()
	created.CreatedAt = m.store.tick()
	created.UpdatedAt = created.CreatedAt
	m.store.users[created.ID] = &created
	out := created
	return &out, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if u, ok := m.store.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username
func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, u := range m.store.users {
		if u.Username == username {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user's profile fields
func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.users[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	for _, u := range m.store.users {
		if u.ID != user.ID && strings.EqualFold(u.Email, user.Email) {
			return nil, domain.ErrUserAlreadyExists
		}
	}
	existing.Email = user.Email
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.UpdatedAt = m.store.tick()
	out := *existing
	return &out, nil
}

// Delete removes a user and every owned record
func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	for k, t := range m.store.tokens {
		if t.UserID == id {
			delete(m.store.tokens, k)
		}
	}
	for k, b := range m.store.budgets {
		if b.UserID == id {
			delete(m.store.budgets, k)
		}
	}
	for k, t := range m.store.transactions {
		if t.UserID == id {
			delete(m.store.transactions, k)
		}
	}
	for k, c := range m.store.categories {
		if c.UserID == id {
			delete(m.store.categories, k)
		}
	}
	delete(m.store.users, id)
	return nil
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.store.users[user.ID] = user
}

// Count returns the number of stored users
func (m *MockUserRepository) Count() int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.users)
}

// MockAuthTokenRepository is a mock implementation of domain.AuthTokenRepository
type MockAuthTokenRepository struct {
	store *MockStore
}

// Create stores a token
func (m *MockAuthTokenRepository) Create(ctx context.Context, token *domain.AuthToken) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	token.ID = uuid.New()
	token.CreatedAt = m.store.tick()
	stored := *token
	m.store.tokens[token.ID] = &stored
	return nil
}

// GetByHash retrieves an active token by hash
func (m *MockAuthTokenRepository) GetByHash(ctx context.Context, hash string) (*domain.AuthToken, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, t := range m.store.tokens {
		if t.TokenHash == hash && t.RevokedAt == nil {
			out := *t
			return &out, nil
		}
	}
	return nil, domain.ErrInvalidToken
}

// Revoke revokes a user's token
func (m *MockAuthTokenRepository) Revoke(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.tokens[id]
	if !ok || t.UserID != userID || t.RevokedAt != nil {
		return domain.ErrInvalidToken
	}
	now := m.store.tick()
	t.RevokedAt = &now
	return nil
}

// UpdateLastUsed records token usage
func (m *MockAuthTokenRepository) UpdateLastUsed(ctx context.Context, id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if t, ok := m.store.tokens[id]; ok {
		now := time.Now()
		t.LastUsedAt = &now
	}
	return nil
}

// ActiveCount returns the number of non-revoked tokens of a user
func (m *MockAuthTokenRepository) ActiveCount(userID uuid.UUID) int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	n := 0
	for _, t := range m.store.tokens {
		if t.UserID == userID && t.RevokedAt == nil {
			n++
		}
	}
	return n
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	store *MockStore
}

// Create creates a new category
func (m *MockCategoryRepository) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, c := range m.store.categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	created := *category
	created.ID = m.store.nextCategoryID
	m.store.nextCategoryID++
	created.CreatedAt = m.store.tick()
	created.UpdatedAt = created.CreatedAt
	m.store.categories[created.ID] = &created
	return m.store.categoryView(&created), nil
}

// GetByID retrieves an owned category
func (m *MockCategoryRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	c, ok := m.store.ownedCategory(userID, id)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	return m.store.categoryView(c), nil
}

// GetAllByUser retrieves all categories of a user, newest first
func (m *MockCategoryRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]*domain.Category, 0)
	for _, c := range m.store.categories {
		if c.UserID == userID {
			result = append(result, m.store.categoryView(c))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Update updates an owned category
func (m *MockCategoryRepository) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.ownedCategory(category.UserID, category.ID)
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	for _, c := range m.store.categories {
		if c.ID != category.ID && c.UserID == category.UserID && c.Name == category.Name {
			return nil, domain.ErrCategoryAlreadyExists
		}
	}
	existing.Name = category.Name
	existing.Kind = category.Kind
	existing.Color = category.Color
	existing.Description = category.Description
	existing.UpdatedAt = m.store.tick()
	return m.store.categoryView(existing), nil
}

// Delete removes a category, clearing it from transactions and deleting its budgets
func (m *MockCategoryRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.ownedCategory(userID, id); !ok {
		return domain.ErrCategoryNotFound
	}
	for _, t := range m.store.transactions {
		if t.CategoryID != nil && *t.CategoryID == id {
			t.CategoryID = nil
		}
	}
	for k, b := range m.store.budgets {
		if b.CategoryID == id {
			delete(m.store.budgets, k)
		}
	}
	delete(m.store.categories, id)
	return nil
}

// AddCategory adds a category directly (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if category.ID == 0 {
		category.ID = m.store.nextCategoryID
	}
	if category.ID >= m.store.nextCategoryID {
		m.store.nextCategoryID = category.ID + 1
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = m.store.tick()
	}
	m.store.categories[category.ID] = category
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	store *MockStore
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if transaction.CategoryID != nil {
		if _, ok := m.store.ownedCategory(transaction.UserID, *transaction.CategoryID); !ok {
			return nil, domain.ErrCategoryNotFound
		}
	}
	created := *transaction
	created.ID = m.store.nextTransactionID
	m.store.nextTransactionID++
	created.CreatedAt = m.store.tick()
	created.UpdatedAt = created.CreatedAt
	m.store.transactions[created.ID] = &created
	return m.store.transactionView(&created), nil
}

// GetByID retrieves an owned transaction
func (m *MockTransactionRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.transactions[id]
	if !ok || t.UserID != userID {
		return nil, domain.ErrTransactionNotFound
	}
	return m.store.transactionView(t), nil
}

// GetByUser retrieves a user's transactions, newest date first
func (m *MockTransactionRepository) GetByUser(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]*domain.Transaction, 0)
	for _, t := range m.store.transactions {
		if t.UserID == userID && matchesFilters(t, filters) {
			result = append(result, m.store.transactionView(t))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return result, nil
}

// Update updates an owned transaction
func (m *MockTransactionRepository) Update(ctx context.Context, transaction *domain.Transaction) (*domain.Transaction, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.transactions[transaction.ID]
	if !ok || existing.UserID != transaction.UserID {
		return nil, domain.ErrTransactionNotFound
	}
	if transaction.CategoryID != nil {
		if _, ok := m.store.ownedCategory(transaction.UserID, *transaction.CategoryID); !ok {
			return nil, domain.ErrCategoryNotFound
		}
	}
	existing.CategoryID = transaction.CategoryID
	existing.Amount = transaction.Amount
	existing.Description = transaction.Description
	existing.Date = transaction.Date
	existing.UpdatedAt = m.store.tick()
	return m.store.transactionView(existing), nil
}

// Delete removes an owned transaction
func (m *MockTransactionRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	t, ok := m.store.transactions[id]
	if !ok || t.UserID != userID {
		return domain.ErrTransactionNotFound
	}
	delete(m.store.transactions, id)
	return nil
}

// SumByKind totals amounts per category kind; uncategorized rows are skipped
func (m *MockTransactionRepository) SumByKind(ctx context.Context, userID uuid.UUID, filters *domain.TransactionFilters) (*domain.TransactionTotals, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	totals := &domain.TransactionTotals{Income: decimal.Zero, Expenses: decimal.Zero}
	for _, t := range m.store.transactions {
		if t.UserID != userID || t.CategoryID == nil || !matchesFilters(t, filters) {
			continue
		}
		c, ok := m.store.categories[*t.CategoryID]
		if !ok {
			continue
		}
		switch c.Kind {
		case domain.CategoryKindIncome:
			totals.Income = totals.Income.Add(t.Amount)
		case domain.CategoryKindExpense:
			totals.Expenses = totals.Expenses.Add(t.Amount)
		}
	}
	return totals, nil
}

// Count returns the number of stored transactions across all users
func (m *MockTransactionRepository) Count() int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.transactions)
}

func matchesFilters(t *domain.Transaction, filters *domain.TransactionFilters) bool {
	if filters == nil {
		return true
	}
	if !util.DateInRange(t.Date, filters.StartDate, filters.EndDate) {
		return false
	}
	if filters.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *filters.CategoryID) {
		return false
	}
	return true
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	store *MockStore
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.ownedCategory(budget.UserID, budget.CategoryID); !ok {
		return nil, domain.ErrCategoryNotFound
	}
	created := *budget
	created.ID = m.store.nextBudgetID
	m.store.nextBudgetID++
	created.CreatedAt = m.store.tick()
	created.UpdatedAt = created.CreatedAt
	created.Spent = decimal.Zero
	m.store.budgets[created.ID] = &created
	return m.store.budgetView(&created), nil
}

// GetByID retrieves an owned budget with its spending
func (m *MockBudgetRepository) GetByID(ctx context.Context, userID uuid.UUID, id int32) (*domain.Budget, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	b, ok := m.store.budgets[id]
	if !ok || b.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	return m.store.budgetView(b), nil
}

// GetAllByUser retrieves a user's budgets by start date, latest first
func (m *MockBudgetRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Budget, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	result := make([]*domain.Budget, 0)
	for _, b := range m.store.budgets {
		if b.UserID == userID {
			result = append(result, m.store.budgetView(b))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartDate.Equal(result[j].StartDate) {
			return result[i].StartDate.After(result[j].StartDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Update updates an owned budget
func (m *MockBudgetRepository) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	existing, ok := m.store.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	if _, ok := m.store.ownedCategory(budget.UserID, budget.CategoryID); !ok {
		return nil, domain.ErrCategoryNotFound
	}
	existing.CategoryID = budget.CategoryID
	existing.Amount = budget.Amount
	existing.Period = budget.Period
	existing.StartDate = budget.StartDate
	existing.EndDate = budget.EndDate
	existing.UpdatedAt = m.store.tick()
	return m.store.budgetView(existing), nil
}

// Delete removes an owned budget
func (m *MockBudgetRepository) Delete(ctx context.Context, userID uuid.UUID, id int32) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	b, ok := m.store.budgets[id]
	if !ok || b.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.store.budgets, id)
	return nil
}

// Count returns the number of stored budgets across all users
func (m *MockBudgetRepository) Count() int {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return len(m.store.budgets)
}
