package models

// Role identifies which photo of a request an image is
type Role string

const (
	RoleCurrent  Role = "current"
	RolePrevious Role = "previous"
	RoleBefore   Role = "before"
	RoleAfter    Role = "after"
)

// DefaultMediaType is used when the client does not say what it sent
const DefaultMediaType = "image/jpeg"

// ImagePayload is a decoded photo that lives only for the duration of a request
type ImagePayload struct {
	Data      []byte
	MediaType string
	Role      Role
}

// AnalyzePhotoRequest is the body of POST /api/analyze-photo
type AnalyzePhotoRequest struct {
	ImageBase64         string `json:"imageBase64" form:"imageBase64"`
	MimeType            string `json:"mimeType,omitempty" form:"mimeType"`
	PreviousImageBase64 string `json:"previousImageBase64,omitempty" form:"previousImageBase64"`
	PreviousMimeType    string `json:"previousMimeType,omitempty" form:"previousMimeType"`
}

// ComparePhotosRequest is the body of POST /api/compare-photos
type ComparePhotosRequest struct {
	BeforeBase64 string `json:"beforeBase64" form:"beforeBase64"`
	BeforeMime   string `json:"beforeMime,omitempty" form:"beforeMime"`
	AfterBase64  string `json:"afterBase64" form:"afterBase64"`
	AfterMime    string `json:"afterMime,omitempty" form:"afterMime"`
	BeforePose   string `json:"beforePose,omitempty" form:"beforePose"`
	AfterPose    string `json:"afterPose,omitempty" form:"afterPose"`
}

// DescribePhotoRequest is the JSON body of the minimal POST /analyze-photo
type DescribePhotoRequest struct {
	PhotoBase64 string `json:"photoBase64" form:"photoBase64"`
	MimeType    string `json:"mimeType,omitempty" form:"mimeType"`
}

// DescribePhotoResponse carries the provider's raw text
type DescribePhotoResponse struct {
	Result string `json:"result"`
}

// MuscleComparison is one entry of the comparison "muscles" array
type MuscleComparison struct {
	Name        string `json:"name"`
	Winner      string `json:"winner"`
	Observation string `json:"observation"`
}

// Recommendation is one entry of the comparison "recommendations" array
type Recommendation struct {
	Text     string `json:"text"`
	Priority string `json:"priority"`
}
