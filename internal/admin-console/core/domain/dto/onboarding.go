package dto

// Upload is a file attached to a multipart submission.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

type ProfileResponse struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message"`
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
}
