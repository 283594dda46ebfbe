package handlers

// ShareRequest is the request for sharing a URL into a namespace.
type ShareRequest struct {
	Table string `doc:"Namespace (case-insensitive)" example:"news"                     path:"table"`
	URL   string `doc:"The URL to share"             example:"https://example.com/story" query:"url"`
}

// ShareBody is the JSON body of a successful share.
type ShareBody struct {
	Status  string `doc:"Always success"                        example:"success"  json:"status"`
	Key     string `doc:"The key the URL is stored under"       example:"a1B2c3D4" json:"key"`
	Created bool   `doc:"Whether this request created the entry" example:"true"   json:"created"`
}

// ShareResponse is the response for a share. Body is nil for 204.
type ShareResponse struct {
	Status int
	Body   *ShareBody
}

// ShowRequest is the request for rendering a stored entry.
type ShowRequest struct {
	Table string `doc:"Namespace (case-insensitive)" example:"news"     path:"table"`
	Key   string `doc:"The entry key"                example:"a1B2c3D4" path:"key"`
}

// ShowResponse carries a rendered entry as raw bytes.
type ShowResponse struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}
