package model

// CaseRoleAssignment is a role of a case instance as stored by the engine
type CaseRoleAssignment struct {
	Name   string
	Users  []string
	Groups []string
}

// CaseRoleAssignmentSummary is the view-side copy of a role assignment
type CaseRoleAssignmentSummary struct {
	Name   string
	Users  []string
	Groups []string
}

// SummarizeRoleAssignment maps an assignment into its summary. nil maps to nil.
func SummarizeRoleAssignment(ra *CaseRoleAssignment) *CaseRoleAssignmentSummary {
	if ra == nil {
		return nil
	}
	return &CaseRoleAssignmentSummary{
		Name:   ra.Name,
		Users:  append([]string(nil), ra.Users...),
		Groups: append([]string(nil), ra.Groups...),
	}
}

// SummarizeRoleAssignments maps a list, dropping nil entries
func SummarizeRoleAssignments(in []*CaseRoleAssignment) []CaseRoleAssignmentSummary {
	out := make([]CaseRoleAssignmentSummary, 0, len(in))
	for _, ra := range in {
		if s := SummarizeRoleAssignment(ra); s != nil {
			out = append(out, *s)
		}
	}
	return out
}
