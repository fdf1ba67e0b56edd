package testutil

import (
	"sort"
	"strings"
	"time"

	"github.com/centsible/centsible-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	ByID       map[uuid.UUID]*domain.User
	ByEmail    map[string]*domain.User
	ByUsername map[string]*domain.User
	History    map[uuid.UUID][]string
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		ByID:       make(map[uuid.UUID]*domain.User),
		ByEmail:    make(map[string]*domain.User),
		ByUsername: make(map[string]*domain.User),
		History:    make(map[uuid.UUID][]string),
	}
}

// AddUser adds a user to the mock repository (helper for tests)
func (m *MockUserRepository) AddUser(user *domain.User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	m.ByID[user.ID] = user
	m.ByEmail[user.Email] = user
	m.ByUsername[user.Username] = user
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	if _, ok := m.ByEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	if _, ok := m.ByUsername[user.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.AddUser(user)
	return user, nil
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByEmail retrieves a user by email, deleted accounts included
func (m *MockUserRepository) GetByEmail(email string) (*domain.User, error) {
	if user, ok := m.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByUsername retrieves a user by username, deleted accounts included
func (m *MockUserRepository) GetByUsername(username string) (*domain.User, error) {
	if user, ok := m.ByUsername[username]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByResetToken retrieves the user holding an unexpired reset code
func (m *MockUserRepository) GetByResetToken(code string) (*domain.User, error) {
	for _, user := range m.ByID {
		if user.ResetToken != nil && *user.ResetToken == code &&
			user.ResetTokenExpiry != nil && user.ResetTokenExpiry.After(time.Now()) &&
			!user.IsDeleted {
			return user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

// Update updates an existing user
func (m *MockUserRepository) Update(user *domain.User) (*domain.User, error) {
	existing, ok := m.ByID[user.ID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(m.ByEmail, existing.Email)
	delete(m.ByUsername, existing.Username)
	user.UpdatedAt = time.Now()
	m.AddUser(user)
	return user, nil
}

// AppendPasswordHistory records a superseded password hash
func (m *MockUserRepository) AppendPasswordHistory(userID uuid.UUID, passwordHash string) error {
	m.History[userID] = append(m.History[userID], passwordHash)
	return nil
}

// GetPasswordHistory lists superseded password hashes
func (m *MockUserRepository) GetPasswordHistory(userID uuid.UUID) ([]string, error) {
	return m.History[userID], nil
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{Categories: make(map[uuid.UUID]*domain.Category)}
}

// AddCategory adds a category to the mock repository (helper for tests)
func (m *MockCategoryRepository) AddCategory(category *domain.Category) *domain.Category {
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	m.Categories[category.ID] = category
	return category
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	for _, existing := range m.Categories {
		if existing.Name == category.Name {
			return nil, domain.ErrDuplicateCategory
		}
	}
	category.ID = uuid.New()
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(id uuid.UUID) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAll lists categories sorted by name
func (m *MockCategoryRepository) GetAll(appliesTo *domain.CategoryApplicability) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, category := range m.Categories {
		if appliesTo == nil || category.AppliesTo == *appliesTo {
			categories = append(categories, category)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})
	return categories, nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	Categories   *MockCategoryRepository
}

// NewMockTransactionRepository creates a new MockTransactionRepository.
// The category mock resolves names for joined reads.
func NewMockTransactionRepository(categories *MockCategoryRepository) *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
		Categories:   categories,
	}
}

// AddTransaction adds a transaction to the mock repository (helper for tests)
func (m *MockTransactionRepository) AddTransaction(t *domain.Transaction) *domain.Transaction {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	m.Transactions[t.ID] = t
	return t
}

// Create creates a new transaction
func (m *MockTransactionRepository) Create(t *domain.Transaction) (*domain.Transaction, error) {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	m.Transactions[t.ID] = t
	return t, nil
}

// GetByID retrieves an owned transaction by ID
func (m *MockTransactionRepository) GetByID(userID, id uuid.UUID) (*domain.Transaction, error) {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		return t, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// Update updates an existing transaction
func (m *MockTransactionRepository) Update(t *domain.Transaction) (*domain.Transaction, error) {
	if _, ok := m.Transactions[t.ID]; !ok {
		return nil, domain.ErrTransactionNotFound
	}
	t.UpdatedAt = time.Now()
	m.Transactions[t.ID] = t
	return t, nil
}

// Delete removes an owned transaction
func (m *MockTransactionRepository) Delete(userID, id uuid.UUID) error {
	if t, ok := m.Transactions[id]; ok && t.UserID == userID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) categoryName(t *domain.Transaction) string {
	if t.CategoryID == nil {
		return domain.UncategorizedName
	}
	if category, ok := m.Categories.Categories[*t.CategoryID]; ok {
		return category.Name
	}
	return domain.UncategorizedName
}

func (m *MockTransactionRepository) matches(t *domain.Transaction, userID uuid.UUID, f *domain.TransactionFilters) bool {
	if t.UserID != userID {
		return false
	}
	if f == nil {
		return true
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	if f.CategoryName != nil {
		name := strings.ToLower(m.categoryName(t))
		if !strings.Contains(name, strings.ToLower(*f.CategoryName)) {
			return false
		}
	}
	if f.StartDate != nil && t.OccurredOn.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.OccurredOn.After(*f.EndDate) {
		return false
	}
	return true
}

// Query returns a filtered, paginated page of transactions
func (m *MockTransactionRepository) Query(userID uuid.UUID, f *domain.TransactionFilters) (*domain.PaginatedTransactions, error) {
	var matched []*domain.TransactionWithCategory
	for _, t := range m.Transactions {
		if m.matches(t, userID, f) {
			matched = append(matched, &domain.TransactionWithCategory{
				Transaction:  *t,
				CategoryName: m.categoryName(t),
			})
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].OccurredOn.After(matched[j].OccurredOn)
	})

	page := int32(1)
	pageSize := int32(domain.DefaultPageSize)
	if f != nil {
		if f.Page > 0 {
			page = f.Page
		}
		if f.PageSize > 0 {
			pageSize = f.PageSize
		}
		if pageSize > domain.MaxPageSize {
			pageSize = domain.MaxPageSize
		}
	}

	total := int64(len(matched))
	start := int((page - 1) * pageSize)
	if start > len(matched) {
		start = len(matched)
	}
	end := start + int(pageSize)
	if end > len(matched) {
		end = len(matched)
	}

	totalPages := int32((total + int64(pageSize) - 1) / int64(pageSize))
	return &domain.PaginatedTransactions{
		Data:       matched[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// SumByTypeAndRange sums amounts of one type over [start, end)
func (m *MockTransactionRepository) SumByTypeAndRange(userID uuid.UUID, txType domain.TransactionType, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == txType && !t.OccurredOn.Before(start) && t.OccurredOn.Before(end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// SumByType sums amounts of one type over the user's lifetime
func (m *MockTransactionRepository) SumByType(userID uuid.UUID, txType domain.TransactionType) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == txType {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// SumExpensesForCategory sums expense amounts in one category over [start, end)
func (m *MockTransactionRepository) SumExpensesForCategory(userID, categoryID uuid.UUID, start, end time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range m.Transactions {
		if t.UserID == userID && t.Type == domain.TransactionTypeExpense &&
			t.CategoryID != nil && *t.CategoryID == categoryID &&
			!t.OccurredOn.Before(start) && t.OccurredOn.Before(end) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

// Recent returns the newest transactions with category names
func (m *MockTransactionRepository) Recent(userID uuid.UUID, limit int32) ([]*domain.TransactionWithCategory, error) {
	page, err := m.Query(userID, &domain.TransactionFilters{Page: 1, PageSize: limit})
	if err != nil {
		return nil, err
	}
	return page.Data, nil
}

// SumExpensesByCategory aggregates expenses per category over [start, end)
func (m *MockTransactionRepository) SumExpensesByCategory(userID uuid.UUID, start, end time.Time) ([]*domain.CategoryTotal, error) {
	buckets := make(map[string]*domain.CategoryTotal)
	for _, t := range m.Transactions {
		if t.UserID != userID || t.Type != domain.TransactionTypeExpense ||
			t.OccurredOn.Before(start) || !t.OccurredOn.Before(end) {
			continue
		}
		name := m.categoryName(t)
		bucket, ok := buckets[name]
		if !ok {
			bucket = &domain.CategoryTotal{CategoryName: name, Total: decimal.Zero}
			buckets[name] = bucket
		}
		bucket.Total = bucket.Total.Add(t.Amount)
		bucket.Count++
	}

	totals := make([]*domain.CategoryTotal, 0, len(buckets))
	for _, bucket := range buckets {
		totals = append(totals, bucket)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Total.GreaterThan(totals[j].Total)
	})
	return totals, nil
}

// SumByCategoryAndType aggregates per category split by type over [start, end)
func (m *MockTransactionRepository) SumByCategoryAndType(userID uuid.UUID, start, end time.Time) ([]*domain.CategoryTypeTotal, error) {
	type key struct {
		name   string
		txType domain.TransactionType
	}
	buckets := make(map[key]*domain.CategoryTypeTotal)
	for _, t := range m.Transactions {
		if t.UserID != userID || t.OccurredOn.Before(start) || !t.OccurredOn.Before(end) {
			continue
		}
		k := key{m.categoryName(t), t.Type}
		bucket, ok := buckets[k]
		if !ok {
			bucket = &domain.CategoryTypeTotal{CategoryName: k.name, Type: k.txType, Total: decimal.Zero}
			buckets[k] = bucket
		}
		bucket.Total = bucket.Total.Add(t.Amount)
	}

	totals := make([]*domain.CategoryTypeTotal, 0, len(buckets))
	for _, bucket := range buckets {
		totals = append(totals, bucket)
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].CategoryName != totals[j].CategoryName {
			return totals[i].CategoryName < totals[j].CategoryName
		}
		return totals[i].Type < totals[j].Type
	})
	return totals, nil
}

// MockBudgetRepository is a mock implementation of domain.BudgetRepository
type MockBudgetRepository struct {
	Budgets    map[uuid.UUID]*domain.Budget
	Categories *MockCategoryRepository
}

// NewMockBudgetRepository creates a new MockBudgetRepository
func NewMockBudgetRepository(categories *MockCategoryRepository) *MockBudgetRepository {
	return &MockBudgetRepository{
		Budgets:    make(map[uuid.UUID]*domain.Budget),
		Categories: categories,
	}
}

// AddBudget adds a budget to the mock repository (helper for tests)
func (m *MockBudgetRepository) AddBudget(b *domain.Budget) *domain.Budget {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.Budgets[b.ID] = b
	return b
}

// Create creates a new budget
func (m *MockBudgetRepository) Create(b *domain.Budget) (*domain.Budget, error) {
	exists, _ := m.ExistsActive(b.UserID, b.CategoryID, b.Month)
	if b.IsActive && exists {
		return nil, domain.ErrDuplicateBudget
	}
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.Budgets[b.ID] = b
	return b, nil
}

// GetByID retrieves an owned, non-deleted budget
func (m *MockBudgetRepository) GetByID(userID, id uuid.UUID) (*domain.Budget, error) {
	if b, ok := m.Budgets[id]; ok && b.UserID == userID && !b.IsDeleted {
		return b, nil
	}
	return nil, domain.ErrBudgetNotFound
}

// Update updates an existing budget
func (m *MockBudgetRepository) Update(b *domain.Budget) (*domain.Budget, error) {
	existing, ok := m.Budgets[b.ID]
	if !ok || existing.IsDeleted {
		return nil, domain.ErrBudgetNotFound
	}
	if b.IsActive {
		for _, other := range m.Budgets {
			if other.ID != b.ID && other.UserID == b.UserID && other.IsActive && !other.IsDeleted &&
				other.CategoryID == b.CategoryID && other.Month == b.Month {
				return nil, domain.ErrDuplicateBudget
			}
		}
	}
	b.UpdatedAt = time.Now()
	m.Budgets[b.ID] = b
	return b, nil
}

// GetActive lists active, non-deleted budgets with category names
func (m *MockBudgetRepository) GetActive(userID uuid.UUID, month *string) ([]*domain.BudgetWithCategory, error) {
	var budgets []*domain.BudgetWithCategory
	for _, b := range m.Budgets {
		if b.UserID != userID || !b.IsActive || b.IsDeleted {
			continue
		}
		if month != nil && b.Month != *month {
			continue
		}
		name := ""
		if category, ok := m.Categories.Categories[b.CategoryID]; ok {
			name = category.Name
		}
		budgets = append(budgets, &domain.BudgetWithCategory{Budget: *b, CategoryName: name})
	}
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Month != budgets[j].Month {
			return budgets[i].Month > budgets[j].Month
		}
		return budgets[i].CategoryName < budgets[j].CategoryName
	})
	return budgets, nil
}

// CountActive counts active, non-deleted budgets
func (m *MockBudgetRepository) CountActive(userID uuid.UUID) (int64, error) {
	var count int64
	for _, b := range m.Budgets {
		if b.UserID == userID && b.IsActive && !b.IsDeleted {
			count++
		}
	}
	return count, nil
}

// ExistsActive reports whether an active budget occupies the slot
func (m *MockBudgetRepository) ExistsActive(userID, categoryID uuid.UUID, month string) (bool, error) {
	for _, b := range m.Budgets {
		if b.UserID == userID && b.CategoryID == categoryID && b.Month == month && b.IsActive && !b.IsDeleted {
			return true, nil
		}
	}
	return false, nil
}

// SoftDelete marks a budget deleted and inactive
func (m *MockBudgetRepository) SoftDelete(userID, id uuid.UUID) error {
	b, ok := m.Budgets[id]
	if !ok || b.UserID != userID || b.IsDeleted {
		return domain.ErrBudgetNotFound
	}
	b.IsDeleted = true
	b.IsActive = false
	return nil
}

// MockSavingsGoalRepository is a mock implementation of domain.SavingsGoalRepository
type MockSavingsGoalRepository struct {
	Goals        map[uuid.UUID]*domain.SavingsGoal
	Transactions *MockTransactionRepository
}

// NewMockSavingsGoalRepository creates a new MockSavingsGoalRepository.
// The transaction mock supplies the balance for AddMoney and receives
// the recorded debits.
func NewMockSavingsGoalRepository(transactions *MockTransactionRepository) *MockSavingsGoalRepository {
	return &MockSavingsGoalRepository{
		Goals:        make(map[uuid.UUID]*domain.SavingsGoal),
		Transactions: transactions,
	}
}

// AddGoal adds a goal to the mock repository (helper for tests)
func (m *MockSavingsGoalRepository) AddGoal(g *domain.SavingsGoal) *domain.SavingsGoal {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m.Goals[g.ID] = g
	return g
}

// Create creates a new goal
func (m *MockSavingsGoalRepository) Create(g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	g.ID = uuid.New()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	m.Goals[g.ID] = g
	return g, nil
}

// GetByID retrieves an owned, non-deleted goal
func (m *MockSavingsGoalRepository) GetByID(userID, id uuid.UUID) (*domain.SavingsGoal, error) {
	if g, ok := m.Goals[id]; ok && g.UserID == userID && !g.IsDeleted {
		return g, nil
	}
	return nil, domain.ErrGoalNotFound
}

// GetAll lists non-deleted goals sorted by due date
func (m *MockSavingsGoalRepository) GetAll(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	var goals []*domain.SavingsGoal
	for _, g := range m.Goals {
		if g.UserID == userID && !g.IsDeleted {
			goals = append(goals, g)
		}
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].DueDate.Equal(goals[j].DueDate) {
			return goals[i].DueDate.Before(goals[j].DueDate)
		}
		return goals[i].Name < goals[j].Name
	})
	return goals, nil
}

// ExistsByName reports whether a non-deleted goal with the name exists
func (m *MockSavingsGoalRepository) ExistsByName(userID uuid.UUID, name string) (bool, error) {
	for _, g := range m.Goals {
		if g.UserID == userID && g.Name == name && !g.IsDeleted {
			return true, nil
		}
	}
	return false, nil
}

// Update updates an existing goal
func (m *MockSavingsGoalRepository) Update(g *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	existing, ok := m.Goals[g.ID]
	if !ok || existing.IsDeleted {
		return nil, domain.ErrGoalNotFound
	}
	g.UpdatedAt = time.Now()
	m.Goals[g.ID] = g
	return g, nil
}

// SoftDelete marks a goal deleted
func (m *MockSavingsGoalRepository) SoftDelete(userID, id uuid.UUID) error {
	g, ok := m.Goals[id]
	if !ok || g.UserID != userID || g.IsDeleted {
		return domain.ErrGoalNotFound
	}
	g.IsDeleted = true
	return nil
}

// AddMoney replicates the atomic accrual: balance check first, then the
// goal lookup, clamp at the target and a ledger debit for the full
// requested amount.
func (m *MockSavingsGoalRepository) AddMoney(userID, goalID uuid.UUID, amount decimal.Decimal) (*domain.SavingsGoal, error) {
	income, _ := m.Transactions.SumByType(userID, domain.TransactionTypeIncome)
	expense, _ := m.Transactions.SumByType(userID, domain.TransactionTypeExpense)
	if amount.GreaterThan(income.Sub(expense)) {
		return nil, domain.ErrInsufficientBalance
	}

	goal, err := m.GetByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	newAmount := goal.CurrentAmount.Add(amount)
	if newAmount.GreaterThan(goal.TargetAmount) {
		newAmount = goal.TargetAmount
	}
	goal.CurrentAmount = newAmount
	goal.UpdatedAt = time.Now()

	description := "Savings goal contribution: " + goal.Name
	m.Transactions.AddTransaction(&domain.Transaction{
		UserID:      userID,
		Type:        domain.TransactionTypeExpense,
		Amount:      amount,
		OccurredOn:  time.Now(),
		Description: &description,
	})
	return goal, nil
}

// SumCurrentAmounts totals current_amount across non-deleted goals
func (m *MockSavingsGoalRepository) SumCurrentAmounts(userID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, g := range m.Goals {
		if g.UserID == userID && !g.IsDeleted {
			total = total.Add(g.CurrentAmount)
		}
	}
	return total, nil
}

// MockMailer records password reset mail instead of sending it
type MockMailer struct {
	Sent []SentMail
	Err  error
}

// SentMail is one recorded delivery
type SentMail struct {
	To   string
	Code string
}

// SendPasswordResetCode records the delivery
func (m *MockMailer) SendPasswordResetCode(to, code string) error {
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, SentMail{To: to, Code: code})
	return nil
}
