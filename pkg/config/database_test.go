package config

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"github.com/hjo3-cse40/SlugConnect/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestGormLoggerSkipsRecordNotFound(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: newGormLogger(log.New(&buf, "", 0), false),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	var u models.User
	if err := db.Where("email = ?", "nobody@ucsc.edu").First(&u).Error; err == nil {
		t.Fatal("expected a missing row")
	}
	if strings.Contains(buf.String(), "record not found") {
		t.Fatalf("missing rows must not be logged: %s", buf.String())
	}

	if err := db.Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected a query error")
	}
	if !strings.Contains(buf.String(), "no_such_table") {
		t.Fatalf("real errors must still be logged, got %q", buf.String())
	}
}

func TestGormLoggerSilentInProduction(t *testing.T) {
	var buf bytes.Buffer
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: newGormLogger(log.New(&buf, "", 0), true),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { sqlDB.Close() })

	_ = db.Exec("SELECT * FROM no_such_table").Error
	if buf.Len() != 0 {
		t.Fatalf("production logger wrote %q", buf.String())
	}
}
