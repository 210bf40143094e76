package common

import (
	"context"
	"database/sql"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRabbitMQ(t *testing.T) string {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("could not terminate container: %v", err)
		}
	})

	return connURL
}

// migrationsSource resolves the repository migrations directory independently of the caller's package.
func migrationsSource() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// TestDB starts a postgres container, applies every migration and returns an open handle.
func TestDB(t *testing.T) *sql.DB {
	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	m, err := Migrate(migrationsSource(), connURL)
	if err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	db, err := sql.Open("postgres", connURL)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		m.Drop()
		c.Terminate(ctx)
	})

	return db
}

// TestBroker connects to a fresh rabbitmq container with every exchange declared.
func TestBroker(t *testing.T) *MessageBroker {
	mb, err := NewMessageBroker(TestRabbitMQ(t))
	if err != nil {
		t.Fatalf("could not connect to message broker: %v", err)
	}

	if err := SetupExchanges(mb); err != nil {
		t.Fatalf("could not setup exchanges: %v", err)
	}

	t.Cleanup(func() {
		mb.Close()
	})

	return mb
}

// TestUser inserts an activated user holding the given permissions and returns its id.
func TestUser(t *testing.T, db *sql.DB, username string, permissions ...string) int {
	var id int
	err := db.QueryRow(`
		INSERT INTO users (username, email, password, activated)
		VALUES ($1, $2, '\x00', true)
		RETURNING id`, username, username+"@example.com").Scan(&id)
	if err != nil {
		t.Fatalf("could not insert user %s: %v", username, err)
	}

	for _, p := range permissions {
		_, err := db.Exec("INSERT INTO user_permissions (user_id, permission) VALUES ($1, $2)", id, p)
		if err != nil {
			t.Fatalf("could not grant %s to %s: %v", p, username, err)
		}
	}

	return id
}
