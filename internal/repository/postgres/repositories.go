package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users             *UserRepository
	Sessions          *SessionRepository
	VerificationCodes *VerificationCodeRepository
	Posts             *PostRepository
	Leads             *LeadRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:             NewUserRepository(pool),
		Sessions:          NewSessionRepository(pool),
		VerificationCodes: NewVerificationCodeRepository(pool),
		Posts:             NewPostRepository(pool),
		Leads:             NewLeadRepository(pool),
	}
}
