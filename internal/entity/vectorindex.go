package entity

// Wire types of the Pinecone control and data planes.

type IndexStatus struct {
	Ready bool   `json:"ready"`
	State string `json:"state"`
}

type IndexDescription struct {
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Metric    string      `json:"metric"`
	Host      string      `json:"host"`
	Status    IndexStatus `json:"status"`
}

type VectorQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	Namespace       string    `json:"namespace,omitempty"`
	IncludeMetadata bool      `json:"includeMetadata"`
	IncludeValues   bool      `json:"includeValues"`
}

type VectorMatchMetadata struct {
	Source *string `json:"source,omitempty"`
	Text   *string `json:"text,omitempty"`
}

type VectorMatch struct {
	ID       string               `json:"id"`
	Score    *float64             `json:"score,omitempty"`
	Metadata *VectorMatchMetadata `json:"metadata,omitempty"`
}

type VectorQueryResponse struct {
	Matches   *[]VectorMatch `json:"matches"`
	Namespace string         `json:"namespace"`
}
