package prune

import (
	"fmt"

	"github.com/reugn/go-rotation/schedule"
)

// NewJob adapts the pruner to a schedule.Job. The returned job keeps the
// result, error and status of the last run.
func NewJob(pruner *Pruner) *schedule.FunctionJob[*Result] {
	return schedule.NewFunctionJob[*Result](pruneJobDescription(pruner), pruner.Prune)
}

func pruneJobDescription(pruner *Pruner) string {
	if store, ok := pruner.store.(*DirStore); ok {
		return fmt.Sprintf("PruneJob::%s", store.Dir())
	}
	return fmt.Sprintf("PruneJob::%T", pruner.store)
}
