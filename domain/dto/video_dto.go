package dto

type ReqPublishVideo struct {
	Title       string `form:"title"`
	Description string `form:"description"`
}

// PublishFiles are local temporary paths of the uploaded video and thumbnail.
type PublishFiles struct {
	VideoPath     string
	ThumbnailPath string
}
