package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// Repository is the lookup surface the matcher needs. Implementations may
// fail; the matcher treats every failure as "no match".
type Repository interface {
	FindByNumberAndInstitution(ctx context.Context, userID uuid.UUID, number, institution string) (*Account, error)
	FindByNumber(ctx context.Context, userID uuid.UUID, number string) (*Account, error)
	FindByUser(ctx context.Context, userID uuid.UUID) ([]Account, error)
}

// Matcher resolves a detection against a user's stored accounts. It is a
// best-effort convenience lookup and never fails an import.
type Matcher struct {
	repo   Repository
	logger *slog.Logger
}

func NewMatcher(repo Repository, logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{repo: repo, logger: logger}
}

// Match tries, in order: exact (number, institution, user); number alone
// scoped to the user; (institution, type) among the user's accounts when
// no number was detected. Repository errors log at Warn and fall through.
func (m *Matcher) Match(ctx context.Context, userID uuid.UUID, det *Detected) *Account {
	if det == nil || m.repo == nil {
		return nil
	}
	number := trailingFour(det.AccountNumber)

	if number != "" && det.Institution != "" {
		acct, err := m.repo.FindByNumberAndInstitution(ctx, userID, number, det.Institution)
		if err != nil {
			m.logger.Warn("account lookup by number and institution failed",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)
		} else if acct != nil {
			return acct
		}
	}

	if number != "" {
		acct, err := m.repo.FindByNumber(ctx, userID, number)
		if err != nil {
			m.logger.Warn("account lookup by number failed",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)
		} else if acct != nil {
			return acct
		}
	}

	if number == "" && det.Institution != "" {
		accounts, err := m.repo.FindByUser(ctx, userID)
		if err != nil {
			m.logger.Warn("account listing failed",
				slog.String("user_id", userID.String()),
				slog.Any("error", err),
			)
			return nil
		}
		for i := range accounts {
			acct := &accounts[i]
			if !strings.EqualFold(acct.Institution, det.Institution) {
				continue
			}
			if det.Type == "" || strings.EqualFold(acct.Type, det.Type) {
				return acct
			}
		}
	}

	return nil
}
