package logger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestGormLevelFor(t *testing.T) {
	assert.Equal(t, gormlogger.Info, gormLevelFor("debug"))
	assert.Equal(t, gormlogger.Info, gormLevelFor(" DEBUG "))
	assert.Equal(t, gormlogger.Error, gormLevelFor("error"))
	assert.Equal(t, gormlogger.Warn, gormLevelFor("info"))
	assert.Equal(t, gormlogger.Warn, gormLevelFor("warn"))
	assert.Equal(t, gormlogger.Warn, gormLevelFor(""))
}

func TestNewGormLoggerDefaultsSlowThreshold(t *testing.T) {
	l := NewGormLogger(GormLoggerConfig{Level: "info"})
	assert.Equal(t, 200*time.Millisecond, l.slowQueryThreshold)

	l = NewGormLogger(GormLoggerConfig{Level: "info", SlowQueryThreshold: time.Second})
	assert.Equal(t, time.Second, l.slowQueryThreshold)
}

func TestOperationFromSQL(t *testing.T) {
	assert.Equal(t, "SELECT", operationFromSQL("select id from leads"))
	assert.Equal(t, "SELECT", operationFromSQL("WITH recent AS (SELECT 1) SELECT * FROM recent"))
	assert.Equal(t, "UPDATE", operationFromSQL("UPDATE leads SET status = ?"))
	assert.Equal(t, "UNKNOWN", operationFromSQL(""))
}
