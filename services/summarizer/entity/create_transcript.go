package entity

type (
	CreateTranscriptRequest struct {
		Content string `json:"content" validate:"required"`
	}

	UploadTranscriptRequest struct {
		FileName    string
		ContentType string
		Data        []byte
	}
)

func (r *CreateTranscriptRequest) Validate() error {
	return runValidation(r)
}
