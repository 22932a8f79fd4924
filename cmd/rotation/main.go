// Rotation computes which dated backups to keep under a round robin
// retention policy, and prunes snapshot directories accordingly.
//
// Usage:
//
//	# Print the dates to retain as of today
//	rotation dates
//
//	# Print the dates for a custom policy anchored to a backup date
//	rotation dates --set anchor_date=2011-06-15 --set days_to_retain=3
//
//	# Show which snapshots would be deleted
//	rotation prune --dir /var/backups --dry-run
//
//	# Prune every night, reloading the policy file on change
//	rotation run --config rotation.yaml --dir /var/backups --schedule "30 2 * * *" --watch
package main

import "os"

func main() {
	os.Exit(Execute())
}
