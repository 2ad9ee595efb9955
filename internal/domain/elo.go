package domain

import "math"

const (
	KFactor       = 32.0
	InitialRating = 1200
)

// ExpectedScore is the probability-like expectation of A beating B.
func ExpectedScore(ratingA, ratingB int) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, float64(ratingB-ratingA)/400.0))
}

// UpdateRatings returns both new ratings after one game. scoreA is 1 for a
// win by A, 0.5 for a draw and 0 for a loss.
func UpdateRatings(ratingA, ratingB int, scoreA float64) (int, int) {
	deltaA := KFactor * (scoreA - ExpectedScore(ratingA, ratingB))
	newA := int(math.Round(float64(ratingA) + deltaA))
	newB := int(math.Round(float64(ratingB) - deltaA))
	if newA < 0 {
		newA = 0
	}
	if newB < 0 {
		newB = 0
	}
	return newA, newB
}
