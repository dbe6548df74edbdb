package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatSequentialID(t *testing.T) {
	at := time.Unix(0x65a1b2c3, 0)

	id := FormatSequentialID(CounterProduct.Prefix(), at, 42)
	assert.Equal(t, "TBF-65a1b2c3-000042", id)

	n, ok := ParseSequentialCounter(id)
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	_, ok = ParseSequentialCounter("TBF-65a1b2c3")
	assert.False(t, ok)
	assert.Equal(t, "ORD", CounterOrder.Prefix())
	assert.Equal(t, "TKT", CounterTicket.Prefix())
}
