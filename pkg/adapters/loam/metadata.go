package loam

// StoryMetadata is the optional frontmatter of a story document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type StoryMetadata struct {
	Title string   `json:"title" mapstructure:"title"`
	Tags  []string `json:"tags" mapstructure:"tags"`
	// Skip excludes the document from visualisation without deleting it.
	Skip bool `json:"skip" mapstructure:"skip"`
}
