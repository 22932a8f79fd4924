// Package rotation computes which dates of a backup rotation must be kept.
//
// A Policy combines a reference "current" date, a fixed backup schedule
// (day of week, day of month, month of year) and the number of daily,
// weekly, monthly and yearly backups to retain. The schedule is either set
// explicitly or derived from a single anchor date:
//
//	policy, err := rotation.NewPolicy(rotation.SystemClock{},
//		rotation.WithAnchorDate("2011-11-15"),
//		rotation.WithDaysToRetain(6),
//		rotation.WithWeeksToRetain(3),
//	)
//	if err != nil {
//		return err
//	}
//	dates, err := rotation.Generate(policy, rotation.Past)
//
// Generation is a pure function of the policy; nothing is deleted here.
// Evaluated day after day with a fixed schedule, the retained dates never
// contain a date that was dropped on a previous day, so a backup removed
// once is never needed again.
//
// The day of month is limited to 28 so that it exists in every month.
// With auto-correction enabled (the default), a larger value moves the
// schedule to the first day of the following month.
//
// Calendar wraps a Policy for concurrent use and partial updates.
package rotation
