package report

import "strings"

// normalizeTags rewrites raw tags into display form: each tag gains the @
// marker, then the first matching rule's transform replaces its text. The
// result is a single space-joined display string; an element without tags
// keeps an empty display string.
func (a *Aggregator) normalizeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}

	prepared := make([]string, 0, len(tags))
	for _, raw := range tags {
		tag := "@" + raw
		for _, rule := range a.opts.TagRules {
			if rule.Pattern.MatchString(tag) {
				tag = rule.Transform(tag)
				break
			}
		}
		prepared = append(prepared, tag)
	}

	return strings.Join(prepared, " ")
}
