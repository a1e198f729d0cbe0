package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RewardPolicy returns the group points earned by a completed order.
// The formula is a business decision and is injected from configuration.
type RewardPolicy func(total int64) int64

type Rounding string

const (
	RoundFloor Rounding = "floor"
	RoundHalf  Rounding = "round"
	RoundCeil  Rounding = "ceil"
)

// PercentageReward credits rate × total, rounded by mode. Negative results are clamped to zero.
func PercentageReward(rate decimal.Decimal, mode Rounding) RewardPolicy {
	return func(total int64) int64 {
		points := decimal.NewFromInt(total).Mul(rate)
		switch mode {
		case RoundCeil:
			points = points.Ceil()
		case RoundHalf:
			points = points.Round(0)
		default:
			points = points.Floor()
		}
		if points.IsNegative() {
			return 0
		}
		return points.IntPart()
	}
}

func ParseRewardPolicy(rate, rounding string) (RewardPolicy, error) {
	r, err := decimal.NewFromString(strings.TrimSpace(rate))
	if err != nil {
		return nil, fmt.Errorf("reward rate %q: %w", rate, err)
	}
	if r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("reward rate %q must be within [0, 1]", rate)
	}

	mode := Rounding(strings.ToLower(strings.TrimSpace(rounding)))
	switch mode {
	case "":
		mode = RoundFloor
	case RoundFloor, RoundHalf, RoundCeil:
	default:
		return nil, fmt.Errorf("reward rounding %q must be floor, round or ceil", rounding)
	}
	return PercentageReward(r, mode), nil
}
