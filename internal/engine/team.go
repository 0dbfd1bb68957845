package engine

// Team tracks a team's accumulated score across the match.
type Team struct {
	Name  string
	Score int
}
