package fleet

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestBlockRunsActionOnceUnconditionally(t *testing.T) {
	runs := 0
	err := Block(0, func() bool { return false }, func() { runs++ }, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 1, runs, "action runs once before the predicate is ever tested")
}

func TestBlockRejectsTinyRetryInterval(t *testing.T) {
	runs := 0
	err := Block(time.Second, func() bool { return true }, func() { runs++ }, 0)
	assert.Error(t, err)
	assert.Equal(t, 0, runs, "action must not run when the arguments are invalid")

	err = Block(time.Second, func() bool { return true }, func() { runs++ }, -time.Second)
	assert.Error(t, err)
	assert.Equal(t, 0, runs)
}

func TestBlockRunsUntilPredicateClears(t *testing.T) {
	runs := 0
	err := Block(time.Minute, func() bool { return runs < 3 }, func() { runs++ }, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, runs)
}

func TestBlockStopsAtDeadlineWithoutError(t *testing.T) {
	runs := 0
	start := time.Now()
	err := Block(20*time.Millisecond, func() bool { return true }, func() { runs++ }, 5*time.Millisecond)
	assert.NoError(t, err, "hitting the deadline is not an error, the caller inspects shared state")
	assert.True(t, runs > 1)
	assert.True(t, time.Since(start) < time.Second)
}
