package types

// ImageType classifies an image found on the source page.
type ImageType string

const (
	ImageProject ImageType = "project"
	ImageProfile ImageType = "profile"
	ImageHero    ImageType = "hero"
	ImageGallery ImageType = "gallery"
)

// ExtractedImage is an image reference discovered during extraction.
type ExtractedImage struct {
	URL       string    `json:"url"`
	LocalPath string    `json:"localPath"`
	Type      ImageType `json:"type"`
	ProjectID *int      `json:"projectId,omitempty"`
}

// ExtractedContent bundles everything recovered from the source page in one run.
type ExtractedContent struct {
	Projects     []Project        `json:"projects"`
	PersonalInfo PersonalInfo     `json:"personalInfo"`
	Skills       []Skill          `json:"skills"`
	Images       []ExtractedImage `json:"images"`
	// PersonalInfoFallbacks names the personal-info fields that hold sentinel values.
	PersonalInfoFallbacks []string `json:"personalInfoFallbacks,omitempty"`
}
