package domain

import (
	"fmt"
	"math"
	"strings"
)

const (
	MinRating = 0.0
	MaxRating = 5.0

	maxCommentLen = 1000
)

func ValidateReview(rating float64, comment string) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return fmt.Errorf("%w: rating must be between %.1f and %.1f", ErrValidation, MinRating, MaxRating)
	}
	if len([]rune(strings.TrimSpace(comment))) > maxCommentLen {
		return fmt.Errorf("%w: comment longer than %d characters", ErrValidation, maxCommentLen)
	}
	return nil
}
