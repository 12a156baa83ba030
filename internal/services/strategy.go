package services

import (
	"fmt"
	"strings"
)

// Strategy names one of the fixed order aggregate retrieval policies.
type Strategy string

const (
	// StrategyToOneJoin loads headers only, in one paginated query.
	StrategyToOneJoin Strategy = "to-one-join"
	// StrategyToOneJoinPlusBatch adds one batched item query per chunk of
	// order ids: 2 queries when the page fits in one chunk.
	StrategyToOneJoinPlusBatch Strategy = "to-one-join-batch"
	// StrategyPerOrderProjection projects headers, then items order by
	// order: 1+N queries.
	StrategyPerOrderProjection Strategy = "per-order-projection"
	// StrategyFlatAggregated loads one flat join and regroups it. Never
	// paginated; orders without items are left out.
	StrategyFlatAggregated Strategy = "flat"
)

var strategies = []Strategy{
	StrategyToOneJoin,
	StrategyToOneJoinPlusBatch,
	StrategyPerOrderProjection,
	StrategyFlatAggregated,
}

func Strategies() []Strategy {
	out := make([]Strategy, len(strategies))
	copy(out, strategies)
	return out
}

func ParseStrategy(s string) (Strategy, error) {
	candidate := Strategy(strings.ToLower(strings.TrimSpace(s)))
	for _, st := range strategies {
		if candidate == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order loading strategy %q", s)
}

// Paginated reports whether the strategy honors offset/limit.
func (s Strategy) Paginated() bool {
	return s != StrategyFlatAggregated
}

// IncludesItems reports whether the strategy attaches order items.
func (s Strategy) IncludesItems() bool {
	return s != StrategyToOneJoin
}
