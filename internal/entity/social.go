package entity

// SocialLinks maps the closed set of platform keys to profile URLs. It has
// its own lifecycle, independent of the Record, and is merged into the
// structured-data document only at build time.
type SocialLinks struct {
	LinkedIn  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	TikTok    string `json:"tiktok"`
	YouTube   string `json:"youtube"`
	Wikipedia string `json:"wikipedia"`
}

// InOrder returns the non-empty link URLs in the fixed sameAs emission order.
func (s *SocialLinks) InOrder() []string {
	ordered := []string{
		s.Wikipedia,
		s.LinkedIn,
		s.Twitter,
		s.Facebook,
		s.Instagram,
		s.TikTok,
		s.YouTube,
	}

	links := make([]string, 0, len(ordered))
	for _, url := range ordered {
		if url != "" {
			links = append(links, url)
		}
	}
	return links
}

// Reset clears all links.
func (s *SocialLinks) Reset() {
	*s = SocialLinks{}
}
