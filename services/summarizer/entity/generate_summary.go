package entity

type (
	GenerateSummaryRequest struct {
		TranscriptContent  string  `json:"transcriptContent" validate:"required"`
		CustomInstructions *string `json:"customInstructions"`
	}

	UpdateSummaryRequest struct {
		Content string `json:"content" validate:"required"`
	}
)

func (r *GenerateSummaryRequest) Validate() error {
	return runValidation(r)
}

func (r *UpdateSummaryRequest) Validate() error {
	return runValidation(r)
}
