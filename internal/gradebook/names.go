package gradebook

import "strings"

// Normalize canonicalizes a name for comparison: runs of whitespace collapse
// to a single space, leading/trailing whitespace is trimmed, and the result
// is lower-cased. Idempotent.
func Normalize(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// DisplayOrder converts a "Last, First" name into "First Last". Names
// without a comma pass through unchanged, as does anything that does not
// split into exactly two parts on ", " (malformed input is left alone
// rather than guessed at). Grade exports use the comma form; rosters are
// assumed to already be in display order, so this is only ever applied to
// grade-table names.
func DisplayOrder(name string) string {
	if !strings.Contains(name, ",") {
		return name
	}
	parts := strings.Split(name, ", ")
	if len(parts) != 2 {
		return name
	}
	return parts[1] + " " + parts[0]
}

// SplitName derives (last, first) from either supported name form. The
// comma form "Last, First" splits directly; the display form "First Last"
// takes the first token as the first name and the final token as the last
// name, so middle names fold into neither.
func SplitName(name string) (last, first string) {
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ", ")
		last = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			first = strings.TrimSpace(parts[1])
		}
		return last, first
	}
	fields := strings.Fields(name)
	if len(fields) > 0 {
		first = fields[0]
	}
	if len(fields) > 1 {
		last = fields[len(fields)-1]
	}
	return last, first
}

// LastNameKey extracts a lower-cased last name for sorting. Falls back to
// the whole trimmed name when no split is possible.
func LastNameKey(name string) string {
	if strings.Contains(name, ",") {
		parts := strings.Split(name, ", ")
		if len(parts) >= 1 {
			return strings.ToLower(strings.TrimSpace(parts[0]))
		}
	} else {
		fields := strings.Fields(name)
		if len(fields) >= 2 {
			return strings.ToLower(fields[len(fields)-1])
		}
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// looseEqual implements the loose name match: both names must have at least
// two whitespace-delimited tokens, and the unordered pair {first token,
// last token} must coincide. Middle tokens and token order are ignored,
// which is what lets "Mantaring, Riley" match a roster entry of
// "Riley Sky Mantaring". This is not fuzzy matching: misspellings,
// nicknames, and hyphenation differences will not match.
func looseEqual(a, b string) bool {
	at := strings.Fields(a)
	bt := strings.Fields(b)
	if len(at) < 2 || len(bt) < 2 {
		return false
	}
	aFirst, aLast := at[0], at[len(at)-1]
	bFirst, bLast := bt[0], bt[len(bt)-1]
	return (aFirst == bFirst && aLast == bLast) || (aFirst == bLast && aLast == bFirst)
}
