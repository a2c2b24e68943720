package model

// Result reports the outcome of converting a single EML file.
type Result struct {
	Success    bool
	SourceFile string
	OutputPath string
	Err        error

	// Attachments lists any attachments extracted alongside the PDF.
	Attachments []AttachmentInfo
}

// BatchResult aggregates the outcome of a whole folder conversion.
type BatchResult struct {
	TotalFiles   int
	Successful   int
	Failed       int
	Results      []Result
	OutputFolder string
	Cancelled    bool

	// AddressBookPath is set when a contact CSV was written.
	AddressBookPath string

	// ReportPath is set when a skipped-files report was written.
	ReportPath string
}
