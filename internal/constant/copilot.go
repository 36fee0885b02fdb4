package constant

const (
	CopilotQueryDefaultLimit = 10
	CopilotQueryMaxLimit     = 50

	CopilotOrderByViews      = "views"
	CopilotOrderByUploadTime = "uploadTime"
	CopilotOrderByHot        = "hot"
)

const (
	RatingLike    = "Like"
	RatingDislike = "Dislike"
	RatingNone    = "None"
)
