package domain

import (
	"fmt"
	"strings"
	"time"
)

// CounterType тип последовательного счётчика в таблице id_counters
type CounterType string

const (
	CounterProduct CounterType = "product"
	CounterOrder   CounterType = "order"
	CounterTicket  CounterType = "ticket"
)

func (c CounterType) Prefix() string {
	switch c {
	case CounterProduct:
		return "TBF"
	case CounterOrder:
		return "ORD"
	case CounterTicket:
		return "TKT"
	default:
		return strings.ToUpper(string(c))
	}
}

// FormatSequentialID собирает идентификатор вида PREFIX-<hex unix ts>-<000042>
func FormatSequentialID(prefix string, at time.Time, counter int64) string {
	return fmt.Sprintf("%s-%x-%06d", prefix, at.Unix(), counter)
}

// ParseSequentialCounter достаёт счётчик из идентификатора, ok=false если формат не тот
func ParseSequentialCounter(id string) (int64, bool) {
	parts := strings.Split(id, "-")
	if len(parts) != 3 {
		return 0, false
	}
	var n int64
	if _, err := fmt.Sscanf(parts[2], "%d", &n); err != nil {
		return 0, false
	}
	return n, true
}
