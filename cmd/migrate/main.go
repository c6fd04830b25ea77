package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run ./cmd/migrate [up|drop]")
		os.Exit(1)
	}
	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		full_name     TEXT NOT NULL,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS rooms (
		id         TEXT PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		owner_id   TEXT NOT NULL REFERENCES users(id),
		settings   JSONB NOT NULL DEFAULT '{}'::jsonb,
		status     TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'ended')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		expires_at TIMESTAMPTZ,
		ended_at   TIMESTAMPTZ
	);
	CREATE INDEX IF NOT EXISTS idx_rooms_code ON rooms(code);
	CREATE INDEX IF NOT EXISTS idx_rooms_owner ON rooms(owner_id);

	CREATE TABLE IF NOT EXISTS questions (
		id           TEXT PRIMARY KEY,
		room_id      TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		content      TEXT NOT NULL,
		author_id    TEXT REFERENCES users(id),
		is_anonymous BOOLEAN NOT NULL DEFAULT false,
		status       TEXT NOT NULL DEFAULT 'approved'
			CHECK (status IN ('pending', 'approved', 'rejected', 'answered')),
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_questions_room ON questions(room_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS question_votes (
		question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		user_id     TEXT NOT NULL,
		voted_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (question_id, user_id)
	);

	CREATE TABLE IF NOT EXISTS question_answers (
		id           BIGSERIAL PRIMARY KEY,
		question_id  TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		text         TEXT NOT NULL,
		author_label TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_question_answers_question ON question_answers(question_id, created_at);

	CREATE TABLE IF NOT EXISTS polls (
		id         TEXT PRIMARY KEY,
		room_id    TEXT NOT NULL REFERENCES rooms(id) ON DELETE CASCADE,
		question   TEXT NOT NULL,
		status     TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'ended')),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_polls_room ON polls(room_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS poll_options (
		poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
		idx     INT NOT NULL,
		text    TEXT NOT NULL,
		votes   INT NOT NULL DEFAULT 0,
		PRIMARY KEY (poll_id, idx)
	);

	CREATE TABLE IF NOT EXISTS poll_voters (
		poll_id   TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
		user_id   TEXT NOT NULL,
		anonymous BOOLEAN NOT NULL DEFAULT false,
		voted_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (poll_id, user_id)
	);
	`
	_, err := conn.Exec(ctx, schema)
	return err
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	_, err := conn.Exec(ctx, `
		DROP TABLE IF EXISTS poll_voters;
		DROP TABLE IF EXISTS poll_options;
		DROP TABLE IF EXISTS polls;
		DROP TABLE IF EXISTS question_answers;
		DROP TABLE IF EXISTS question_votes;
		DROP TABLE IF EXISTS questions;
		DROP TABLE IF EXISTS rooms;
		DROP TABLE IF EXISTS users;
	`)
	return err
}
