package patterns

import "regexp"

// categoryPatterns binds one semantic category key to an ordered list of regex
// alternatives, most specific first. The table below is itself ordered:
// category selection iterates it top to bottom and the first key found as a
// substring of the field's lowercased name or description wins. Within a
// category the first pattern whose capture group 1 is non-empty wins.
type categoryPatterns struct {
	key      string
	patterns []*regexp.Regexp
}

// The patterns deliberately favor recall over precision: many overlapping
// alternatives, accepting some false positives in exchange for offline,
// zero-cost extraction when the primary path is unavailable.
var categoryTable = []categoryPatterns{
	{key: "name", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:name|full name)[:\s]+([A-Za-z\s.'-]+)(?:\r|\n|,)`),
		regexp.MustCompile(`(?m)^([A-Z][a-z]+(?:\s[A-Z][a-z]+)+)$`),
		regexp.MustCompile(`(?i)resume(?:\s+of|\s+for)?[:\s]+([A-Za-z\s.'-]+)(?:\r|\n|,)`),
	}},
	{key: "email", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)([a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)email[:\s]+([a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+)`),
		regexp.MustCompile(`(?i)contact[:\s]+(?:[^@\n]*?)?([a-zA-Z0-9._-]+@[a-zA-Z0-9._-]+\.[a-zA-Z0-9_-]+)`),
	}},
	{key: "phone", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:phone|tel|telephone|mobile)[:\s]+([+\d\s()\-.]{10,20})`),
		regexp.MustCompile(`(?i)(?:contact|call)[:\s]+([+\d\s()\-.]{10,20})`),
		regexp.MustCompile(`(?i)((?:\+\d{1,3}[-\s]?)?\(?\d{3}\)?[-\s.]?\d{3}[-\s.]?\d{4})`),
	}},
	{key: "address", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:address|location)[:\s]+([A-Za-z0-9\s.,#'-]+(?:[A-Za-z]{2}[\s,]+\d{5}(?:-\d{4})?))`),
		regexp.MustCompile(`(?i)([A-Za-z0-9\s.,#'-]+(?:[A-Za-z]{2}[\s,]+\d{5}(?:-\d{4})?))`),
		regexp.MustCompile(`(?i)([A-Za-z0-9\s.,#'-]+(?:Street|Avenue|Road|Blvd|Lane|Dr\.?|Drive)[A-Za-z0-9\s.,#'-]*)`),
	}},
	{key: "education", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:education|university|college)[:\s]+([A-Za-z\s.,#()'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:degree|diploma)[:\s]+([A-Za-z\s.,#()'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:B\.?A\.?|B\.?S\.?|M\.?A\.?|M\.?S\.?|Ph\.?D\.?)[,\s]+([A-Za-z\s.,#()'-]+)`),
	}},
	{key: "experience", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:experience|work)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:company|employer)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:job title|position)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
	}},
	{key: "skills", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:skills|expertise)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:technical skills|competencies)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?i)(?:proficient in|familiar with)[:\s]+([A-Za-z\s.,&()#'-]+)(?:\r|\n)`),
	}},
	{key: "invoice_number", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:invoice|invoice no|invoice number|invoice #)[:\s#]+([A-Za-z0-9\s-]+)`),
		regexp.MustCompile(`(?i)(?:invoice|inv)[:\s#]+([A-Za-z0-9\s-]+)`),
	}},
	{key: "invoice_date", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:date|invoice date)[:\s]+([A-Za-z0-9\s.,/-]+)`),
		regexp.MustCompile(`(?i)(?:issued|issued on|created on)[:\s]+([A-Za-z0-9\s.,/-]+)`),
		regexp.MustCompile(`(?i)(?:date)[:\s]+([0-3]?[0-9][/-][0-3]?[0-9][/-][0-9]{2,4})`),
	}},
	{key: "total_amount", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:total|amount|total amount)[:\s$£€]+([0-9,.]+)`),
		regexp.MustCompile(`(?i)(?:total|amount|total amount|sum)[:\s$£€]+([0-9,.]+)`),
		regexp.MustCompile(`(?i)(?:total|amount|total amount)[:\s]*[$£€]?\s*([0-9,.]+)`),
	}},
	{key: "company_name", patterns: []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:company|business|from)[:\s]+([A-Za-z0-9\s.,&#'-]+)(?:\r|\n)`),
		regexp.MustCompile(`(?m)^([A-Z][A-Za-z0-9\s.,&#'-]+(?:Inc\.?|LLC|Ltd\.?|Corporation|Corp\.?|Co\.?))`),
	}},
}
