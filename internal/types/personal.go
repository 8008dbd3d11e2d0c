package types

// Sentinel values substituted when a personal-info field could not be extracted.
const (
	DefaultName  = "Your Name"
	DefaultTitle = "Your Professional Title"
	DefaultBio   = "Your professional bio will be migrated here."
	DefaultEmail = "your.email@example.com"
)

// PersonalInfo holds the portfolio owner's details. At most one is produced per extraction run.
type PersonalInfo struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Bio         string      `json:"bio"`
	Email       string      `json:"email"`
	Phone       string      `json:"phone,omitempty"`
	Location    string      `json:"location,omitempty"`
	SocialLinks SocialLinks `json:"socialLinks"`
}

// SocialLinks maps supported platforms to profile URLs.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	GitHub    string `json:"github,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// IsSentinel reports whether value equals the sentinel for the named field
// (name, title, bio or email).
func IsSentinel(field, value string) bool {
	switch field {
	case "name":
		return value == DefaultName
	case "title":
		return value == DefaultTitle
	case "bio":
		return value == DefaultBio
	case "email":
		return value == DefaultEmail
	}
	return false
}
