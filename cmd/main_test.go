package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_ReturnsConfigError(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration")
}

func TestRun_ReturnsDatabaseError(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://jpashop@127.0.0.1:1/jpashop?connect_timeout=1")

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connect to database")
}
