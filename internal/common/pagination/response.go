package pagination

// Response is a generic paginated response wrapper.
type Response[T any] struct {
	Data []T      `json:"data"`
	Meta Metadata `json:"meta"`
}

// NewResponse wraps data and metadata. A nil slice is encoded as [].
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	if data == nil {
		data = []T{}
	}
	return Response[T]{
		Data: data,
		Meta: metadata,
	}
}
