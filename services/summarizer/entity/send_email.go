package entity

type (
	SendEmailRequest struct {
		SummaryID  string   `json:"summaryId" validate:"required"`
		Recipients []string `json:"recipients" validate:"required,min=1,dive,required,email"`
		Subject    string   `json:"subject" validate:"required"`
		Message    *string  `json:"message"`
	}

	SendEmailResponse struct {
		Message    string      `json:"message"`
		EmailShare *EmailShare `json:"emailShare"`
	}
)

func (r *SendEmailRequest) Validate() error {
	return runValidation(r)
}
