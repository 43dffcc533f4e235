package mongo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/feedbackhub/portal/internal/infrastructure/db/storetest"
)

func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "mongo:7",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForListeningPort("27017/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("mongo container unavailable: %v", err)
	}
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := c.MappedPort(ctx, "27017/tcp")
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	return fmt.Sprintf("mongodb://%s:%s", host, port.Port())
}

func TestTokenStore_Mongo(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	client, db, err := Connect(ctx, Config{URI: uri, Database: "portal_test"})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	store := NewTokenStore(db, time.Hour)
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes returned error: %v", err)
	}
	storetest.Run(t, store)
}

func TestTokenStore_Mongo_ExpiredTokenIsHidden(t *testing.T) {
	uri := startMongo(t)
	ctx := context.Background()

	client, db, err := Connect(ctx, Config{URI: uri, Database: "portal_test"})
	if err != nil {
		t.Fatalf("Connect returned error: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(ctx) })

	store := NewTokenStore(db, time.Millisecond)
	if err := store.Set(ctx, "expiring", "tok"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	if _, ok, err := store.Get(ctx, "expiring"); err != nil || ok {
		t.Fatalf("expected expired token to be hidden, got ok=%v err=%v", ok, err)
	}
}
