package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockClockAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)

	c.Advance(250 * time.Millisecond)
	assert.Equal(t, start.Add(250*time.Millisecond), c.Now())
	assert.Equal(t, 250*time.Millisecond, c.Since(start))
}

func TestMockTickerFiresOnPeriod(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMockClock(start)
	ticker := c.NewTicker(100 * time.Millisecond)
	require.Equal(t, 1, c.Tickers())

	c.Advance(50 * time.Millisecond)
	select {
	case <-ticker.C():
		t.Fatal("ticker fired before its period elapsed")
	default:
	}

	c.Advance(50 * time.Millisecond)
	select {
	case got := <-ticker.C():
		assert.Equal(t, start.Add(100*time.Millisecond), got)
	default:
		t.Fatal("ticker did not fire after its period elapsed")
	}

	ticker.Stop()
	c.Advance(time.Second)
	select {
	case <-ticker.C():
		t.Fatal("stopped ticker fired")
	default:
	}
}
