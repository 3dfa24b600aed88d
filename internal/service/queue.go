package service

import (
	"context"

	"card_arena/internal/domain"
	"card_arena/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrAlreadyQueued = repository.ErrAlreadyQueued
	ErrNotQueued     = repository.ErrNotQueued
)

// QueueNotifier receives status transitions to push to connected clients.
type QueueNotifier interface {
	QueueUpdate(playerID int64, mode string, status domain.QueueStatus, matchID string)
}

// QueueStatusView is the contract exposed to collaborators: idle, queued,
// matched (with the match reference) or cancelled.
type QueueStatusView struct {
	Status  domain.QueueStatus `json:"status"`
	MatchID string             `json:"match_id,omitempty"`
}

// QueueService tracks a player's matchmaking entry per game mode. Matched
// and cancelled entries are terminal; re-enqueueing starts a fresh entry.
type QueueService struct {
	queueRepo *repository.QueueRepository
	notifier  QueueNotifier
}

func NewQueueService(db *pgxpool.Pool) *QueueService {
	return &QueueService{queueRepo: repository.NewQueueRepository(db)}
}

// SetNotifier attaches a push channel for status transitions. Optional;
// without one the service is query-only.
func (s *QueueService) SetNotifier(n QueueNotifier) {
	s.notifier = n
}

// Status returns the player's current queue state for a mode. Purely
// observational: no row means idle, and nothing is mutated.
func (s *QueueService) Status(ctx context.Context, playerID int64, mode string) (*QueueStatusView, error) {
	entry, err := s.queueRepo.GetLatest(ctx, playerID, mode)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &QueueStatusView{Status: domain.QueueIdle}, nil
	}
	view := &QueueStatusView{Status: entry.Status}
	if entry.Status == domain.QueueMatched {
		view.MatchID = entry.MatchID
	}
	return view, nil
}

// Enqueue creates a fresh queued entry for the (player, mode) pair.
func (s *QueueService) Enqueue(ctx context.Context, playerID int64, mode string) (*domain.QueueEntry, error) {
	entry, err := s.queueRepo.Insert(ctx, playerID, mode)
	if err != nil {
		return nil, err
	}
	s.notify(playerID, mode, domain.QueueQueued, "")
	return entry, nil
}

// Cancel moves the player's active entry to cancelled.
func (s *QueueService) Cancel(ctx context.Context, playerID int64, mode string) error {
	if err := s.queueRepo.Cancel(ctx, playerID, mode); err != nil {
		return err
	}
	s.notify(playerID, mode, domain.QueueCancelled, "")
	return nil
}

// Match resolves the player's active entry with a match reference. Called
// by the matcher collaborator (admin surface here).
func (s *QueueService) Match(ctx context.Context, playerID int64, mode, matchID string) error {
	if err := s.queueRepo.Match(ctx, playerID, mode, matchID); err != nil {
		return err
	}
	s.notify(playerID, mode, domain.QueueMatched, matchID)
	return nil
}

func (s *QueueService) notify(playerID int64, mode string, status domain.QueueStatus, matchID string) {
	if s.notifier != nil {
		s.notifier.QueueUpdate(playerID, mode, status, matchID)
	}
}
