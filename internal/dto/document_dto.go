package dto

const (
	DefaultSearchLimit     = 5
	DefaultSearchThreshold = 0.7
	DefaultListLimit       = 10
)

type CreateDocumentRequest struct {
	Content  string                 `json:"content" validate:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}

type CreateDocumentResponse struct {
	Id     int64  `json:"id"`
	Status string `json:"status"`
}

// SearchRequest uses pointers so an explicit 0 threshold is not mistaken
// for "use the default".
type SearchRequest struct {
	Query     string   `json:"query" validate:"required"`
	Limit     *int     `json:"limit" validate:"omitempty,min=1"`
	Threshold *float64 `json:"threshold"`
}

func (r *SearchRequest) LimitOrDefault() int {
	if r.Limit == nil {
		return DefaultSearchLimit
	}
	return *r.Limit
}

func (r *SearchRequest) ThresholdOrDefault() float64 {
	if r.Threshold == nil {
		return DefaultSearchThreshold
	}
	return *r.Threshold
}

type SearchResult struct {
	Id         int64                  `json:"id"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata"`
	Similarity float64                `json:"similarity"`
}

type SearchResponse struct {
	Results []*SearchResult `json:"results"`
}

type ListDocumentsRequest struct {
	Limit  int `query:"limit" validate:"min=1"`
	Offset int `query:"offset" validate:"min=0"`
}

type DocumentItem struct {
	Id        int64                  `json:"id"`
	Content   string                 `json:"content"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt *string                `json:"created_at"` // ISO-8601 or null
}

type ListDocumentsResponse struct {
	Documents []*DocumentItem `json:"documents"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

type ReadyResponse struct {
	Status string `json:"status"`
}
