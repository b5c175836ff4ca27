package loadgen

import (
	"errors"
	"fmt"
	"slices"

	"github.com/okian/mergington/internal/domain/healthstats"
)

// verify compares the state before and after a run against what was
// acknowledged. It reports every violation it finds.
func verify(before, after Snapshot, activity string, signups []Signup, stats *Stats) error {
	var errs []error

	prev := before.Activities[activity].Participants
	roster := after.Activities[activity].Participants
	if grown := len(roster) - len(prev); grown != stats.SignupsSuccessful {
		errs = append(errs, fmt.Errorf("roster of %q grew by %d, want %d", activity, grown, stats.SignupsSuccessful))
	}
	if len(roster) < len(prev) || !slices.Equal(prev, roster[:len(prev)]) {
		errs = append(errs, fmt.Errorf("roster of %q lost or reordered existing participants", activity))
	}
	if stats.SignupsFailed == 0 {
		for _, s := range signups {
			if !slices.Contains(roster, s.Email) {
				errs = append(errs, fmt.Errorf("signup %s missing from %q", s.Email, activity))
				break
			}
		}
	}

	added := len(after.Records) - len(before.Records)
	if added != stats.RecordsSuccessful {
		errs = append(errs, fmt.Errorf("health log grew by %d, want %d", added, stats.RecordsSuccessful))
	}
	for i, r := range after.Records {
		if r.ID != i+1 {
			errs = append(errs, fmt.Errorf("record at position %d has id %d", i, r.ID))
			break
		}
	}
	if after.Stats.TotalRecords != len(after.Records) {
		errs = append(errs, fmt.Errorf("stats report %d records, log has %d", after.Stats.TotalRecords, len(after.Records)))
	}
	if want := healthstats.Compute(after.Records); after.Stats != want {
		errs = append(errs, fmt.Errorf("stats %+v do not match recomputed %+v", after.Stats, want))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}
