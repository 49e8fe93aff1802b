// Package mockbank simulates a bank statement feed for income verification.
package mockbank

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/model"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/port"
	"github.com/the-lost-phoenix/credit-risk-engine/internal/domain/valueobject"
)

var _ port.StatementSource = (*Simulator)(nil)

const (
	Months            = 6
	ExpensesPerMonth  = 5
	SalaryNarration   = "ACH CR: SALARY TRANSFER INFOSYS LTD"
	ExpenseNarration  = "UPI-SWIGGY-XYZ"
	BounceNarration   = "CHQ BOUNCE CHARGES - INSUFFICIENT FUNDS"
	GamblingNarration = "UPI-DREAM11-GAMING"

	minExpense     = 500
	maxExpense     = 2000
	bounceCharge   = 500
	gamblingAmount = 5000
	riskyBounces   = 2
	// one in riskyOdds statements carries red flags.
	riskyOdds  = 5
	dateLayout = "2006-01-02"
)

// Simulator generates six months of statement data around a claimed salary.
type Simulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	now func() time.Time
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithRand fixes the random source, for reproducible statements.
func WithRand(r *rand.Rand) Option {
	return func(s *Simulator) { s.rnd = r }
}

// WithClock overrides the statement end date.
func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

// NewSimulator creates a simulator seeded from the current time.
func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
		now: time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FetchStatement implements port.StatementSource.
func (s *Simulator) FetchStatement(ctx context.Context, claimedSalary float64) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	risky := s.rnd.Intn(riskyOdds) == 0
	return s.generate(claimedSalary, risky), nil
}

func (s *Simulator) generate(salary float64, risky bool) []model.Transaction {
	now := s.now().UTC()
	txns := make([]model.Transaction, 0, Months*(1+ExpensesPerMonth)+riskyBounces+1)

	for i := 0; i < Months; i++ {
		month := now.AddDate(0, 0, -30*i)
		payday := time.Date(month.Year(), month.Month(), 5, 0, 0, 0, 0, time.UTC)
		txns = append(txns, model.Transaction{
			Date:      payday.Format(dateLayout),
			Amount:    salary,
			Type:      valueobject.TransactionCredit,
			Narration: SalaryNarration,
		})
		for j := 0; j < ExpensesPerMonth; j++ {
			txns = append(txns, model.Transaction{
				Date:      month.Format(dateLayout),
				Amount:    float64(minExpense + s.rnd.Intn(maxExpense-minExpense+1)),
				Type:      valueobject.TransactionDebit,
				Narration: ExpenseNarration,
			})
		}
	}

	if !risky {
		return txns
	}
	today := now.Format(dateLayout)
	for i := 0; i < riskyBounces; i++ {
		txns = append(txns, model.Transaction{
			Date:      today,
			Amount:    bounceCharge,
			Type:      valueobject.TransactionDebit,
			Narration: BounceNarration,
		})
	}
	txns = append(txns, model.Transaction{
		Date:      today,
		Amount:    gamblingAmount,
		Type:      valueobject.TransactionDebit,
		Narration: GamblingNarration,
	})
	return txns
}
