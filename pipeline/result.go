package pipeline

// Result holds the output of a document run.
type Result struct {
	HTML     string    `json:"html"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// WarningType categorizes pipeline warnings.
type WarningType string

const (
	WarningReplacedPass WarningType = "replaced_pass"
)

// Warning represents a non-fatal issue encountered while configuring or
// running the pipeline.
type Warning struct {
	Type    WarningType `json:"type"`
	Pass    string      `json:"pass,omitempty"`
	Message string      `json:"message"`
}
