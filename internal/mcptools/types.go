package mcptools

// --- MCP Tool Input Types ---
// These structs define the JSON schema for each MCP tool's input.
// The MCP Go SDK auto-generates JSON schemas from struct tags.

// PreviewReportInput is the input for the preview_report MCP tool.
type PreviewReportInput struct {
	WeekEnding string `json:"weekEnding,omitempty" jsonschema:"week-ending date in YYYY-MM-DD form (default: last complete week)"`
	Current    bool   `json:"current,omitempty" jsonschema:"preview the in-progress week instead of the last complete one"`
}

// PreviewReportOutput is the result of the preview_report MCP tool.
type PreviewReportOutput struct {
	WeekStart  string `json:"weekStart"`
	WeekEnd    string `json:"weekEnd"`
	EntryCount int    `json:"entryCount"`
	Body       string `json:"body"`
}

// SubmitReportInput is the input for the submit_report MCP tool.
type SubmitReportInput struct {
	WeekEnding string `json:"weekEnding,omitempty" jsonschema:"week-ending date in YYYY-MM-DD form (default: last complete week)"`
	Current    bool   `json:"current,omitempty" jsonschema:"submit the in-progress week instead of the last complete one"`
	Replace    bool   `json:"replace,omitempty" jsonschema:"overwrite the week's report if one already exists"`
}

// SubmitReportOutput is the result of the submit_report MCP tool.
type SubmitReportOutput struct {
	WeekEnd string `json:"weekEnd"`
	Outcome string `json:"outcome"`
	Written bool   `json:"written"`
}

// BackfillYearInput is the input for the backfill_year MCP tool.
type BackfillYearInput struct {
	Year    int  `json:"year" jsonschema:"the year to backfill (current or past)"`
	Replace bool `json:"replace,omitempty" jsonschema:"overwrite weeks that already have a report"`
}

// BackfillYearOutput is the result of the backfill_year MCP tool.
type BackfillYearOutput struct {
	TotalWeeks int `json:"totalWeeks"`
	Processed  int `json:"processed"`
	Replaced   int `json:"replaced,omitempty"`
	Skipped    int `json:"skipped"`
	NoData     int `json:"noData"`
	Errored    int `json:"errored"`
}

// GetCoverageInput is the input for the get_coverage MCP tool.
type GetCoverageInput struct {
	Year int `json:"year" jsonschema:"the year to report coverage for"`
}

// WeekCoverage is one row of the get_coverage result.
type WeekCoverage struct {
	Label   string `json:"label"`
	WeekEnd string `json:"weekEnd"`
	Covered bool   `json:"covered"`
}

// GetCoverageOutput is the result of the get_coverage MCP tool.
type GetCoverageOutput struct {
	Year    int            `json:"year"`
	User    string         `json:"user"`
	Covered int            `json:"covered"`
	Missing int            `json:"missing"`
	Weeks   []WeekCoverage `json:"weeks"`
}
