package gradebook

// SectionOther is the bucket for students no roster claims. Resolving to it
// is a normal outcome, never an error.
const SectionOther = "Other"

// ResolveSection decides which section owns a grade-table student. The name
// is flipped into display order, then each section's roster is scanned in
// order: an exact normalized match or a loose {first, last} token-set match
// returns that section immediately. A name present in two rosters therefore
// resolves to whichever section is enumerated first. Returns ("", false)
// when no roster matches.
//
// Deliberately stateless and recomputed per call: O(sections x roster size)
// is cheap at three-digit cohort sizes and leaves nothing to go stale.
func ResolveSection(studentName string, rosters *Rosters) (string, bool) {
	display := Normalize(DisplayOrder(studentName))

	for _, section := range rosters.Sections {
		for _, rosterName := range rosters.Names(section) {
			candidate := Normalize(rosterName)
			if display == candidate {
				return section, true
			}
			if looseEqual(display, candidate) {
				return section, true
			}
		}
	}
	return "", false
}

// SectionOrDefault is ResolveSection with unmatched students folded into
// SectionOther, the form the aggregator wants.
func SectionOrDefault(studentName string, rosters *Rosters) string {
	if section, ok := ResolveSection(studentName, rosters); ok {
		return section
	}
	return SectionOther
}
