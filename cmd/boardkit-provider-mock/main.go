// boardkit-provider-mock serves an in-memory board over the provider
// plugin protocol. Point 'boardkit sprint assign --provider' at the built
// binary to run the engine without touching a hosted project; set
// BOARDKIT_PROVIDER_BOARD to a board file to replace the canned state.
package main

import (
	"strconv"

	"boardkit/pkg/domain/board"
	"boardkit/pkg/provider"
	"boardkit/pkg/provider/memboard"
)

func main() {
	provider.Serve(memboard.New(defaultIterations(), defaultItems()))
}

// defaultIterations is a full eight-sprint schedule of one-week
// iterations.
func defaultIterations() []board.Iteration {
	start := board.MustParseDate("2026-02-02")
	iterations := make([]board.Iteration, 0, 8)
	for i := 0; i < 8; i++ {
		n := strconv.Itoa(i + 1)
		iterations = append(iterations, board.Iteration{
			ID:           "it-" + n,
			Title:        "Sprint " + n,
			StartDate:    start.AddDays(i * 7),
			DurationDays: 7,
		})
	}
	return iterations
}

// defaultItems covers the interesting paths: a fresh item, one already
// assigned, one with a manual due date, and one no rule matches.
func defaultItems() []board.Item {
	return []board.Item{
		{ID: "item-1", ContentType: board.ContentTypeIssue, Number: 1, Title: "Finalize repository structure"},
		{ID: "item-2", ContentType: board.ContentTypeIssue, Number: 2, Title: "Draft data dictionary", IterationTitle: "Sprint 2"},
		{ID: "item-3", ContentType: board.ContentTypeIssue, Number: 3, Title: "Build preprocessing pipeline", DueDate: board.MustParseDate("2026-02-20")},
		{ID: "item-4", ContentType: board.ContentTypeIssue, Number: 4, Title: "Team retro notes"},
	}
}
