package tastetrail

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tastetrail/tastetrail/ai/mock"
	"github.com/tastetrail/tastetrail/ingestion"
	"github.com/tastetrail/tastetrail/search"
)

func TestNewDatabase(t *testing.T) {
	t.Run("create new database", func(t *testing.T) {
		tmpDir := filepath.Join(t.TempDir(), "test_db")
		db, err := NewDatabase(tmpDir, WithAIProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		// Verify components are initialized
		assert.NotNil(t, db.PlaceRepository())
		assert.NotNil(t, db.EmbeddingCache())
		assert.NotNil(t, db.backend)
		assert.NotNil(t, db.logger)
	})

	t.Run("error with invalid path", func(t *testing.T) {
		// Try to create a database at a file path instead of directory
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		err := os.WriteFile(tmpFile, []byte("test"), 0644)
		require.NoError(t, err)

		db, err := NewDatabase(tmpFile, WithAIProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, db)
	})
}

func TestDatabase_Close(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	require.NotNil(t, db)

	err = db.Close()
	assert.NoError(t, err)
}

func TestDatabase_EndToEnd(t *testing.T) {
	db, err := NewDatabase(t.TempDir(), WithAIProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	// Ingest a small corpus
	pipeline, err := db.NewIngestionPipeline(ingestion.WithPoolSize(1))
	require.NoError(t, err)
	defer pipeline.Release()

	restaurants := "ten_quan,diem_trung_binh,dia_chi,gio_mo_cua,gia_ca,lat,lon,diem_khong_gian,diem_vi_tri,diem_chat_luong,diem_phuc_vu,diem_gia_ca,avatar_url,url_goc\n" +
		"Phở Hòa,4.2,Quận 3,,,10.7831,106.6893,,,,,,,https://example.com/pho-hoa\n" +
		"Cơm Tấm Ba Ghiền,4.6,Quận 3,,,10.7900,106.6800,,,,,,,https://example.com/ba-ghien\n"

	report, err := pipeline.Run(ctx, ingestion.Sources{
		Restaurants: strings.NewReader(restaurants),
	})
	require.NoError(t, err)
	require.Equal(t, 2, report.Stored)

	// Build the engine and rank
	engine, err := db.NewEngine()
	require.NoError(t, err)
	require.NoError(t, engine.Build(ctx))
	require.True(t, engine.Ready())

	candidates, err := engine.Rank(ctx, search.NewQuery("phở"))
	require.NoError(t, err)
	assert.Len(t, candidates, 2)

	// Wire the API server
	server, err := db.NewServer(engine)
	require.NoError(t, err)
	assert.NotNil(t, server.Router())
}
