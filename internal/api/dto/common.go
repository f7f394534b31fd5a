package dto

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// ListParams are the offset/limit parameters shared by every list endpoint.
type ListParams struct {
	Skip  int
	Limit int
}

func (p *ListParams) Normalize() {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit < 1 {
		p.Limit = 100
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}
