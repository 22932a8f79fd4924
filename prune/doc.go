// Package prune applies a rotation policy to a set of dated snapshots.
//
// A [Pruner] lists the snapshots of a [Store], keeps the ones whose date
// belongs to the retained set of the calendar's policy evaluated for
// today, and deletes the rest:
//
//	store := prune.NewDirStore("/var/backups")
//	pruner, err := prune.NewPruner(store, calendar, prune.Options{DryRun: true})
//	if err != nil {
//		return err
//	}
//	result, err := pruner.Prune(ctx)
package prune
