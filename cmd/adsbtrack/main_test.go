package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"adsbtrack/internal/app"
)

func TestDefaultConfigConstants(t *testing.T) {
	assert.Equal(t, "localhost:30005", app.DefaultBeastAddr)
	assert.Equal(t, 512, app.DefaultCapacity)
}
