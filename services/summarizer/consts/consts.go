package consts

const (
	// DefaultInstructions is prepended to the transcript when the caller
	// supplies no custom instructions.
	DefaultInstructions = "Summarize the following meeting transcript in clear, well-organized bullet points. Highlight key decisions, action items, and open questions."

	// Completion parameters. Low temperature keeps summaries focused and
	// close to deterministic.
	CompletionMaxTokens   = 1000
	CompletionTemperature = 0.3

	// Upload limits
	MaxUploadSize = 10 << 20 // 10MB

	// Accepted upload mimetypes
	MimeTextPlain    = "text/plain"
	MimeWordDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

	// Email body framing
	EmailSeparator  = "----------------------------------------"
	EmailDisclaimer = "This summary was generated by AI and may contain inaccuracies. Please review the content before relying on it."
)
