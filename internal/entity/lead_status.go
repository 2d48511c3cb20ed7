package entity

// HotEngagementThreshold is inclusive: three interactions make a lead hot.
const HotEngagementThreshold = 3

// DeriveStatus classifies a lead from its signals. First matching rule wins,
// so a lead eligible for both hot and warm is hot.
func DeriveStatus(l *Lead) LeadStatus {
	if isHot(l) {
		return LeadStatusHot
	}
	if isWarm(l) {
		return LeadStatusWarm
	}
	return LeadStatusNew
}

func isHot(l *Lead) bool {
	return (l.DemoRequested && l.DemoCompleted) ||
		l.QuoteRequested ||
		l.EngagementCount >= HotEngagementThreshold ||
		l.HasUrgentNeed ||
		l.IsDecisionMaker
}

func isWarm(l *Lead) bool {
	return (l.DemoRequested && !l.DemoCompleted) ||
		l.LastContactedAt != nil ||
		len(l.Notes) > 0 ||
		(l.EngagementCount > 0 && l.EngagementCount < HotEngagementThreshold)
}

// RecomputeStatus re-derives the status unless the lead is converted or lost.
func (l *Lead) RecomputeStatus() (old, updated LeadStatus, changed bool) {
	old = l.Status
	if old.Terminal() {
		return old, old, false
	}
	updated = DeriveStatus(l)
	l.Status = updated
	return old, updated, old != updated
}
