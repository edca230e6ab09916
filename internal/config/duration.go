package config

import (
	"math"
	"time"
)

type durationKind int

const (
	durationAbsent durationKind = iota
	durationSeconds
	durationTyped
	durationInvalid
)

// durationInput is a raw duration override classified by its shape.
// Only durationSeconds and durationTyped carry a value.
type durationInput struct {
	kind  durationKind
	value time.Duration
}

func classifyDuration(raw any) durationInput {
	switch v := raw.(type) {
	case nil:
		return durationInput{kind: durationAbsent}
	case time.Duration:
		return durationInput{kind: durationTyped, value: v}
	}

	n, ok := asInt(raw)
	if !ok {
		return durationInput{kind: durationInvalid}
	}
	if int64(n) > math.MaxInt64/int64(time.Second) || int64(n) < math.MinInt64/int64(time.Second) {
		return durationInput{kind: durationInvalid}
	}
	return durationInput{kind: durationSeconds, value: time.Duration(n) * time.Second}
}
