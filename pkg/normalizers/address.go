package normalizers

import (
	"regexp"
	"strings"
)

var (
	apostropheReplacer = strings.NewReplacer("’", "'", "`", "'", "´", "'")
	punctReplacer      = strings.NewReplacer(".", "", ",", "", ";", "", "_", "", "-", " ")

	// PO-box lines in the four national conventions plus English, with an
	// optional box number.
	poBoxRe = regexp.MustCompile(`^(postfach|case postale|bo[iî]te postale|casella postale|post office box|po box)\s*(?:no\s*|nr\s*)?(\d*)$`)

	// A street number token at the start or end of a line: digits with up to
	// three trailing letters ("12", "12a", "12bis" is too long on purpose).
	leadingNumberRe  = regexp.MustCompile(`^(\d+[a-z]{0,3})\s+`)
	trailingNumberRe = regexp.MustCompile(`\s+(\d+[a-z]{0,3})$`)

	// French street-type words with their article variants.
	frenchStreetRe = regexp.MustCompile(`\b(rue|ruelle|chemin|route|avenue|boulevard|place|quai)(\s+(de\s+la|de\s+l'|du|des|de|d'))?\s*`)

	germanStreetSuffixes = []string{"strasse", "str", "weg", "platz", "gasse", "gaesslein", "gässlein"}
)

// AddressLine normalizes a street address line for comparison: lowercase,
// trimmed, whitespace collapsed, the punctuation `.,;_-` stripped and
// apostrophe variants unified.
func AddressLine(s string) string {
	s = apostropheReplacer.Replace(s)
	s = punctReplacer.Replace(s)
	return Text(s)
}

// AddressLineSimilar reports whether two address lines denote the same
// location. The comparison is symmetric.
func AddressLineSimilar(a, b string) bool {
	if a == b {
		return true
	}

	na, nb := AddressLine(a), AddressLine(b)
	if na == nb {
		return true
	}

	boxA := poBoxRe.FindStringSubmatch(na)
	boxB := poBoxRe.FindStringSubmatch(nb)
	if boxA != nil && boxB != nil {
		numA, numB := boxA[2], boxB[2]
		return numA == "" || numB == "" || numA == numB
	}

	numA, restA := splitStreetNumber(na)
	numB, restB := splitStreetNumber(nb)
	if numA != numB {
		return false
	}

	return stripStreetWords(restA) == stripStreetWords(restB)
}

// splitStreetNumber extracts a leading or trailing street number token and
// returns it together with the remaining line.
func splitStreetNumber(line string) (string, string) {
	if m := leadingNumberRe.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(strings.TrimPrefix(line, m[0]))
	}
	if m := trailingNumberRe.FindStringSubmatch(line); m != nil {
		return m[1], strings.TrimSpace(strings.TrimSuffix(line, m[0]))
	}
	return "", line
}

// stripStreetWords removes street-type vocabulary so "rue de la Gare" and
// "Bahnhofstrasse"-style lines reduce to their distinguishing part.
func stripStreetWords(line string) string {
	line = frenchStreetRe.ReplaceAllString(line, "")

	tokens := strings.Fields(line)
	kept := tokens[:0]
	for _, tok := range tokens {
		for _, suffix := range germanStreetSuffixes {
			if tok == suffix {
				tok = ""
				break
			}
			if strings.HasSuffix(tok, suffix) && len(tok) > len(suffix) {
				tok = strings.TrimSuffix(tok, suffix)
				break
			}
		}
		if tok != "" {
			kept = append(kept, tok)
		}
	}

	return strings.Join(kept, " ")
}
