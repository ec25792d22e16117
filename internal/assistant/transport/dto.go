package transport

// GenerateFollowUpTasksRequest is the input for the task drafter.
type GenerateFollowUpTasksRequest struct {
	InteractionNotes string `json:"interactionNotes" validate:"required,min=10,max=4000"`
	ProspectType     string `json:"prospectType" validate:"required,max=100"`
	ProspectName     string `json:"prospectName" validate:"required,max=200"`
	ProductOffered   string `json:"productOffered" validate:"required,max=200"`
}

type GenerateFollowUpTasksResponse struct {
	Tasks []string `json:"tasks"`
}
