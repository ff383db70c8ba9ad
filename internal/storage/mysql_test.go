package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cafehub/internal/config"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(config.DatabaseConfig{
		Host:     "db.internal",
		Port:     "3306",
		Username: "cafehub",
		Password: "secret",
		Database: "cafehub",
	})

	assert.Equal(t, "cafehub:secret@tcp(db.internal:3306)/cafehub?charset=utf8mb4&parseTime=True&loc=Local&clientFoundRows=true", dsn)
	// Without clientFoundRows a no-op UPDATE reports 0 affected rows and an
	// existing record would be treated as missing.
	assert.Contains(t, dsn, "clientFoundRows=true")
}
