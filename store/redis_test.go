package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ZaguanLabs/agrilingo"
	"github.com/go-redis/redismock/v9"
)

func TestRedisStore_Get_Hit(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectGet("test:appLanguage").SetVal("hi")

	val, ok, err := s.Get(context.Background(), "appLanguage")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Error("Expected hit")
	}
	if val != "hi" {
		t.Errorf("Expected 'hi', got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Miss(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectGet("test:appLanguage").RedisNil()

	val, ok, err := s.Get(context.Background(), "appLanguage")
	if err != nil {
		t.Errorf("Miss should not be an error, got %v", err)
	}
	if ok {
		t.Error("Expected miss")
	}
	if val != "" {
		t.Errorf("Expected empty string, got %q", val)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Get_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectGet("test:translationCache").SetErr(errors.New("connection reset"))

	_, ok, err := s.Get(context.Background(), "translationCache")
	if ok {
		t.Error("Expected no value on error")
	}

	var storeErr *agrilingo.StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Expected StoreError, got %T", err)
	}
	if storeErr.Op != "get" || storeErr.Key != "translationCache" {
		t.Errorf("Unexpected StoreError %+v", storeErr)
	}
}

func TestRedisStore_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectSet("test:appLanguage", "fr", 3600*time.Second).SetVal("OK")

	if err := s.Set(context.Background(), "appLanguage", "fr"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Set_NoTTL(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectSet("test:apiCallCount", "7", 0).SetVal("OK")

	if err := s.Set(context.Background(), "apiCallCount", "7"); err != nil {
		t.Errorf("Set failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Set_Error(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "test:")

	mock.ExpectSet("test:appLanguage", "fr", 0).SetErr(errors.New("READONLY"))

	err := s.Set(context.Background(), "appLanguage", "fr")
	var storeErr *agrilingo.StoreError
	if !errors.As(err, &storeErr) || storeErr.Op != "set" {
		t.Errorf("Expected set StoreError, got %v", err)
	}
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 0, "")

	mock.ExpectGet("agrilingo:appLanguage").SetVal("ta")

	val, ok, _ := s.Get(context.Background(), "appLanguage")
	if !ok || val != "ta" {
		t.Errorf("Expected 'ta', got %q (ok=%v)", val, ok)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestRedisStore_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	defer db.Close()

	s := NewRedisStoreFromClient(db, 3600, "test:")

	mock.ExpectPing().SetVal("PONG")

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore(context.Background(), RedisConfig{URL: "not a url"})
	if err == nil {
		t.Error("Expected error for invalid URL")
	}
}
