// Package catalog holds the fixed learning-style data the assistant answers from:
// the context paragraph and the per-style study tips.
package catalog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrUnknownStyle is returned by ParseStyle for anything outside the VARK set.
var ErrUnknownStyle = errors.New("unknown learning style")

// Style is one of the four VARK learning styles.
type Style string

const (
	Visual         Style = "visual"
	Auditory       Style = "auditory"
	Kinesthetic    Style = "kinesthetic"
	ReadingWriting Style = "reading/writing"
)

// Context is the paragraph every question is answered against.
const Context = "The four types of learning styles: Visual, Auditory, Reading/writing and Kinesthetic. " +
	"Describe visual learners - Visual learners prefer visual representations of information, such as diagrams, charts, graphs, and maps. " +
	"However, they don't necessarily respond well to photos or videos, rather needing their information using different visual aids such as patterns and shapes. " +
	"Describe auditory learners - Auditory learners are individuals who learn through listening. They are prone to sorting their ideas after speaking rather than thinking ideas through before. " +
	"Describe Kinesthetic learners - Kinesthetic learners are individuals who prefer to learn by doing and hands-on experience. " +
	"Describe reading/writing learners - Reading/writing learners prefer to engage with text-based information. These individuals usually perform very well on written assignments. " +
	"To find out your learning style: take the VARK questionnaire linked above, observation of study habits, self-assessment of information retention preferences, experimentation with different study techniques. " +
	"Does age affect learning styles: Children often benefit from kinesthetic methods, teenagers from social-learning approaches, adults from reading/writing strategies for professional development."

// QuestionnaireURL is the VARK questionnaire the context refers to as "linked above".
const QuestionnaireURL = "https://vark-learn.com/the-vark-questionnaire/"

var styles = []Style{Visual, Auditory, Kinesthetic, ReadingWriting}

var labels = map[Style]string{
	Visual:         "Visual",
	Auditory:       "Auditory",
	Kinesthetic:    "Kinesthetic",
	ReadingWriting: "Reading/Writing",
}

var tips = map[Style][]string{
	Visual: {
		"Use diagrams, charts, and mind maps to organize information",
		"Color-code notes and materials to highlight key concepts",
		"Watch educational videos or animations",
		"Convert text into flowcharts or infographics",
		"Use flashcards with images and symbols",
		"Create visual timelines for historical events",
		"Use graphic organizers to compare/contrast concepts",
		"Utilize color-coded sticky notes for spatial organization",
	},
	Auditory: {
		"Participate in group discussions and study groups",
		"Use mnemonic devices and rhymes for memorization",
		"Record and listen to audio notes",
		"Explain concepts out loud to yourself",
		"Listen to educational podcasts",
		"Create songs or rhythms for memorization",
		"Use text-to-speech software for reading materials",
		"Engage in debate-style practice sessions",
	},
	Kinesthetic: {
		"Engage in hands-on activities and experiments",
		"Take active breaks during study sessions",
		"Use physical objects to demonstrate concepts",
		"Incorporate movement into learning routines",
		"Practice through role-playing scenarios",
		"Build 3D models of abstract concepts",
		"Use gesture-based mnemonics",
		"Combine study with light exercise like pacing",
	},
	ReadingWriting: {
		"Write summaries and paraphrased notes",
		"Create detailed outlines and bullet points",
		"Read textbooks and articles thoroughly",
		"Write essays and journal entries",
		"Use written flashcards for review",
		"Convert diagrams into written descriptions",
		"Maintain a detailed glossary of terms",
		"Rewrite notes in multiple formats (lists, paragraphs)",
	},
}

// All returns the styles in dropdown order.
func All() []Style {
	out := make([]Style, len(styles))
	copy(out, styles)
	return out
}

// ParseStyle maps user input such as "Reading/Writing" or " VISUAL " onto a Style.
func ParseStyle(raw string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := tips[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStyle, raw)
	}
	return s, nil
}

// Tips returns a copy of the ordered tip list for s.
func Tips(s Style) []string {
	src := tips[s]
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Label is the dropdown label, e.g. "Reading/Writing".
func (s Style) Label() string {
	return labels[s]
}

// Title capitalizes the first letter only, e.g. "Reading/writing".
func (s Style) Title() string {
	r, size := utf8.DecodeRuneInString(string(s))
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + string(s)[size:]
}

func (s Style) String() string {
	return string(s)
}
