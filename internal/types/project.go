// Package types provides type definitions for the portfolio records produced by the content migration.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Project is one portfolio entry shown in the project gallery.
type Project struct {
	ID           int      `json:"id"`
	Image        string   `json:"image"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies,omitempty"`
	LiveURL      string   `json:"liveUrl,omitempty"`
	GitHubURL    string   `json:"githubUrl,omitempty"`
	Category     string   `json:"category,omitempty"`
}
