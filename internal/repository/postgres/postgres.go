// Package postgres provides pgx-backed repository implementations. Every
// mutation is either a single atomic statement or a short transaction that
// locks the entity row, so concurrent mutations on the same entity
// serialize without lost updates.
package postgres

import (
	"github.com/RohanLambture/InteractiveQ/internal/repository"
	"github.com/RohanLambture/InteractiveQ/pkg/database"
)

// NewRepositories returns the full postgres-backed repository set
func NewRepositories(db *database.PostgresDB) *repository.Repositories {
	return &repository.Repositories{
		Rooms:     NewRoomRepository(db),
		Questions: NewQuestionRepository(db),
		Polls:     NewPollRepository(db),
		Users:     NewUserRepository(db),
	}
}
