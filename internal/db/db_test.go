package db

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"incubator/internal/model"
)

func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	gormDB, err := Open("sqlite", memoryDSN(t), nil)
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB, false))
	assert.True(t, gormDB.Migrator().HasTable(&model.User{}))
	assert.True(t, gormDB.Migrator().HasTable(&model.Event{}))

	require.NoError(t, gormDB.Create(&model.Event{Description: "kickoff"}).Error)
	require.NoError(t, Migrate(gormDB, true))

	var count int64
	require.NoError(t, gormDB.Model(&model.Event{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestOpen_LogsThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	gormDB, err := Open("sqlite", memoryDSN(t), log)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB, false))
	buf.Reset()

	var user model.User
	err = gormDB.Where("email = ?", "missing@example.com").First(&user).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String())

	err = gormDB.Table("no_such_table").First(&user).Error
	require.Error(t, err)
	assert.Contains(t, buf.String(), "no_such_table")
	assert.Contains(t, buf.String(), "component=gorm")
}
