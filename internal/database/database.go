package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/paracosm-app/backend/internal/config"
	"github.com/paracosm-app/backend/internal/models"
)

// Service represents a service that interacts with a database.
type Service interface {
	// Health returns a map of health status information.
	Health() map[string]string

	// Close terminates the database connection.
	Close() error

	GetDB() *gorm.DB
}

type service struct {
	db   *gorm.DB
	name string
}

// New opens the database, runs migrations and configures the pool.
func New(cfg config.Database) (Service, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info().Str("database", cfg.Name).Msg("database connected")

	err = db.AutoMigrate(
		&models.User{},
		&models.World{},
		&models.Law{},
		&models.Role{},
		&models.Inhabitant{},
		&models.Scroll{},
		&models.Question{},
		&models.Answer{},
		&models.BoardPost{},
		&models.BoardComment{},
		&models.Vote{},
		&models.MapPin{},
		&models.GalleryImage{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &service{db: db, name: cfg.Name}, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// Health checks the health of the database connection by pinging it.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats := make(map[string]string)

	sqlDB, err := s.db.DB()
	if err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db error: %v", err)
		return stats
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	stats["status"] = "up"
	dbStats := sqlDB.Stats()
	stats["open_connections"] = fmt.Sprintf("%d", dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprintf("%d", dbStats.InUse)
	stats["idle"] = fmt.Sprintf("%d", dbStats.Idle)

	return stats
}

func (s *service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	log.Info().Str("database", s.name).Msg("disconnected from database")
	return sqlDB.Close()
}

// Initialize creates the tables through the raw SQL path. Used by the
// migrate command; the server relies on AutoMigrate.
func Initialize(cfg config.Database) error {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %w", err)
	}

	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id SERIAL PRIMARY KEY,
        username VARCHAR(50) UNIQUE NOT NULL,
        email VARCHAR(100) UNIQUE NOT NULL,
        password VARCHAR(255) NOT NULL,
        bio TEXT,
        avatar VARCHAR(255),
        phone VARCHAR(32),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS worlds (
        id SERIAL PRIMARY KEY,
        name VARCHAR(200) NOT NULL,
        description TEXT,
        genre VARCHAR(100),
        cover_image VARCHAR(500),
        creator_id INTEGER REFERENCES users(id),
        share_token VARCHAR(64) UNIQUE,
        forked_from_id INTEGER REFERENCES worlds(id),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS laws (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        title VARCHAR(300) NOT NULL,
        body TEXT,
        position INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS roles (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        name VARCHAR(100) NOT NULL,
        description TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS inhabitants (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        user_id INTEGER REFERENCES users(id),
        role_id INTEGER REFERENCES roles(id),
        joined_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        UNIQUE(world_id, user_id)
    );

    CREATE TABLE IF NOT EXISTS scrolls (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        author_id INTEGER REFERENCES users(id),
        title VARCHAR(300) NOT NULL,
        body TEXT NOT NULL,
        status VARCHAR(20) DEFAULT 'pending',
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS questions (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        author_id INTEGER REFERENCES users(id),
        title VARCHAR(300) NOT NULL,
        body TEXT,
        score INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS answers (
        id SERIAL PRIMARY KEY,
        question_id INTEGER REFERENCES questions(id),
        author_id INTEGER REFERENCES users(id),
        body TEXT NOT NULL,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS board_posts (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        author_id INTEGER REFERENCES users(id),
        title VARCHAR(300) NOT NULL,
        body TEXT,
        score INTEGER DEFAULT 0,
        comments INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS board_comments (
        id SERIAL PRIMARY KEY,
        post_id INTEGER REFERENCES board_posts(id),
        author_id INTEGER REFERENCES users(id),
        body TEXT NOT NULL,
        parent_comment_id INTEGER REFERENCES board_comments(id),
        score INTEGER DEFAULT 0,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS votes (
        id SERIAL PRIMARY KEY,
        user_id INTEGER REFERENCES users(id),
        target_kind VARCHAR(32) NOT NULL,
        target_id INTEGER NOT NULL,
        direction INTEGER CHECK (direction IN (-1, 1)),
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        UNIQUE(user_id, target_kind, target_id)
    );

    CREATE TABLE IF NOT EXISTS map_pins (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        created_by INTEGER REFERENCES users(id),
        label VARCHAR(200) NOT NULL,
        description TEXT,
        x DOUBLE PRECISION,
        y DOUBLE PRECISION,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
        updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS gallery_images (
        id SERIAL PRIMARY KEY,
        world_id INTEGER REFERENCES worlds(id),
        uploaded_by INTEGER REFERENCES users(id),
        url VARCHAR(1000) NOT NULL,
        caption TEXT,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS notifications (
        id SERIAL PRIMARY KEY,
        user_id INTEGER REFERENCES users(id),
        kind VARCHAR(32),
        message TEXT,
        world_id INTEGER REFERENCES worlds(id),
        read BOOLEAN DEFAULT FALSE,
        created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    `

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("error creating tables: %w", err)
	}

	log.Info().Msg("database tables created/verified")
	return nil
}
