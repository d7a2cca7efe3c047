// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"quizarena/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Session{},
		&models.SessionPlayer{},
		&models.PlayerAnswer{},
		&models.ChatMessage{},
		&models.Tournament{},
		&models.Duo{},
		&models.Statistic{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes for hot query paths
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_wins ON users(wins DESC)")

	// Session indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_status ON sessions(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_sessions_kind_status ON sessions(kind, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_session_players_session ON session_players(session_id, join_order)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_chat_messages_session ON chat_messages(session_id, timestamp)")

	// Quiz indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_quizzes_public ON quizzes(is_public)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_questions_quiz ON questions(quiz_id)")

	// Statistic indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_statistics_user ON statistics(user_id, created_at DESC)")
}
