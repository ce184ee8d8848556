package env

import (
	"testing"
	"time"

	"galaxy-recommender/internal/application/port/output"

	"github.com/stretchr/testify/assert"
)

func TestEnvService_TypedGetters(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BAD_BOOL", "maybe")
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_BAD_INT", "twelve")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_FLOAT", "0.25")

	e := &EnvService{}

	assert.True(t, e.GetBool("TEST_BOOL", false))
	assert.True(t, e.GetBool("TEST_BAD_BOOL", true))
	assert.Equal(t, 12, e.GetInt("TEST_INT", 1))
	assert.Equal(t, 1, e.GetInt("TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, e.GetDuration("TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, e.GetDuration("TEST_MISSING", time.Second))
	assert.Equal(t, "fallback", e.GetWithDefault("TEST_MISSING", "fallback"))
	assert.InDelta(t, 0.25, e.GetFloat("TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.5, e.GetFloat("TEST_BAD_INT", 1.5), 1e-9)
}

func TestEnvService_SatisfiesConfigPort(t *testing.T) {
	var src output.ConfigPort = &EnvService{}
	t.Setenv("TEST_ROUNDS", "3")
	assert.Equal(t, 3, src.GetInt("TEST_ROUNDS", 8))
}
