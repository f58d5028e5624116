package database

import (
	"github.com/kenang-app/kenang-billing/internal/adapter/repository"
	domainRepo "github.com/kenang-app/kenang-billing/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Payment      domainRepo.PaymentRepository
	Subscription domainRepo.SubscriptionRepository
	User         domainRepo.UserRepository
	Transactor   domainRepo.Transactor
}

// NewRepositories creates new repository instances with database connection
func NewRepositories(db *gorm.DB, logger *zap.Logger) *Repositories {
	return &Repositories{
		Payment:      repository.NewPaymentRepository(db, logger),
		Subscription: repository.NewSubscriptionRepository(db, logger),
		User:         repository.NewUserRepository(db, logger),
		Transactor:   repository.NewTransactor(db),
	}
}
