package scheduling

import "workforce/models"

// EligibleSupervisors returns, in input order, the supervisors that are not
// allocated and not referenced by any active allocation.
func EligibleSupervisors(workers []models.Worker, allocations []models.Allocation) []models.Worker {
	return eligible(workers, allocations, true)
}

// EligibleWorkers returns, in input order, the non-supervisor workers that
// are not allocated and not referenced by any active allocation.
func EligibleWorkers(workers []models.Worker, allocations []models.Allocation) []models.Worker {
	return eligible(workers, allocations, false)
}

func eligible(workers []models.Worker, allocations []models.Allocation, supervisors bool) []models.Worker {
	busy := activeMembers(allocations, 0)
	out := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		if w.IsSupervisor() != supervisors {
			continue
		}
		if w.Status != models.WorkerNotAllocated || busy[w.ID] {
			continue
		}
		out = append(out, w)
	}
	return out
}

// activeMembers collects every worker id referenced by an active allocation,
// skipping the allocation with id except.
func activeMembers(allocations []models.Allocation, except uint) map[uint]bool {
	busy := make(map[uint]bool)
	for i := range allocations {
		a := &allocations[i]
		if !a.IsActive() || a.ID == except {
			continue
		}
		for _, id := range a.MemberIDs() {
			busy[id] = true
		}
	}
	return busy
}
