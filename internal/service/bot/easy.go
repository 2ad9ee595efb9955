package bot

import (
	"github.com/iamasit07/cube4/internal/domain"
	"lukechampine.com/frand"
)

// calculateEasyMove runs after the win and block checks, so all that is left
// is a uniformly random legal column.
func calculateEasyMove(moves []domain.Column) Decision {
	return Decision{Column: moves[frand.Intn(len(moves))], Reason: ReasonRandom}
}
