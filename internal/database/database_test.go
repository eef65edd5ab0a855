package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

func TestOpenSQLiteAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "biosci.db")

	db, err := Open("sqlite://" + path)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	buddy := models.BioBuddy{FullName: "Lan", Course: "K21", Email: "lan@example.com", ResearchTopic: "Enzymes", Description: "Looking for a partner"}
	require.NoError(t, db.Create(&buddy).Error)
	require.Equal(t, models.BuddyStatusPending, buddy.Status)
}

func TestOpenRejectsEmptyDSN(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)

	_, err = Open("sqlite://")
	require.Error(t, err)
}

func TestConnectRedisRejectsEmptyURL(t *testing.T) {
	_, err := ConnectRedis(context.Background(), "")
	require.Error(t, err)
}

func TestConnectRedisPingsServer(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mr.Close()
	_, err = ConnectRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.Error(t, err)
}
