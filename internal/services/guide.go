package services

import (
	"fmt"
	"strings"

	"vark-assistant/internal/catalog"
)

type GuideService struct{}

func NewGuideService() *GuideService {
	return &GuideService{}
}

// Generate renders the study guide for a user-supplied style name. Matching
// is case-insensitive; unknown names fail with catalog.ErrUnknownStyle.
func (s *GuideService) Generate(style string) (string, error) {
	parsed, err := catalog.ParseStyle(style)
	if err != nil {
		return "", err
	}
	return s.Render(parsed), nil
}

func (s *GuideService) Render(style catalog.Style) string {
	tips := catalog.Tips(style)
	lines := make([]string, len(tips))
	for i, tip := range tips {
		lines[i] = fmt.Sprintf("%d. %s", i+1, tip)
	}
	return fmt.Sprintf("📚 Custom Study Guide for %s Learners:\n\n%s", style.Title(), strings.Join(lines, "\n"))
}
