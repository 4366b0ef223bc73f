package rules

// RuleRef identifies the rule that produced a violation.
type RuleRef struct {
	ID    string `json:"id"`
	Alias string `json:"alias"`
}

// Violation is a single reported issue. It carries just enough to
// render a CLI line, an LSP diagnostic, or a SARIF result: a rule
// reference, a rendered message, the file path, and a zero-based range.
type Violation struct {
	Rule     RuleRef `json:"rule"`
	Message  string  `json:"message"`
	FilePath string  `json:"filePath"`
	Range    Range   `json:"range"`
}

// NewViolation builds a violation at a single point (zero-width range).
func NewViolation(rule RuleRef, filePath, message string, line, character int) Violation {
	return Violation{
		Rule:     rule,
		Message:  message,
		FilePath: filePath,
		Range:    NewPointRange(line, character),
	}
}

// NewRangeViolation builds a violation spanning [start, end).
func NewRangeViolation(rule RuleRef, filePath, message string, rng Range) Violation {
	return Violation{
		Rule:     rule,
		Message:  message,
		FilePath: filePath,
		Range:    rng,
	}
}
