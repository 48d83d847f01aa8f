package scoring

import "fmt"

const (
	// BallsPerOver is the number of legal deliveries in an over.
	BallsPerOver = 6
	// MaxWickets ends an innings as all out.
	MaxWickets = 10
)

// Score is the projection of an innings' event log.
type Score struct {
	Runs       int `json:"runs"`
	Wickets    int `json:"wickets"`
	LegalBalls int `json:"ballsFaced"`
}

// DeriveScore folds the whole history into a score. It is the only way a score is computed.
func DeriveScore(history []BallEvent) Score {
	var s Score
	for _, ev := range history {
		s.Runs += ev.RunsAdded()
		if ev.IsWicket() {
			s.Wickets++
		}
		if ev.Legal() {
			s.LegalBalls++
		}
	}
	return s
}

// FormatOvers renders legal balls as overs.balls, e.g. 27 -> "4.3".
func FormatOvers(balls int) string {
	return fmt.Sprintf("%d.%d", balls/BallsPerOver, balls%BallsPerOver)
}

// OversDecimal converts legal balls to fractional overs for rate calculations.
func OversDecimal(balls int) float64 {
	if balls == 0 {
		return 0
	}
	return float64(balls) / BallsPerOver
}

// QuotaBalls is the number of legal deliveries an innings of totalOvers allows.
func QuotaBalls(totalOvers int) int {
	return totalOvers * BallsPerOver
}
