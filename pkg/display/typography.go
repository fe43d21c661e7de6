package display

import "strings"

// TypographyRole names a landing text style.
type TypographyRole string

const (
	H1       TypographyRole = "h1"
	H2       TypographyRole = "h2"
	H3       TypographyRole = "h3"
	ButtonXL TypographyRole = "button-xl"
	ButtonL  TypographyRole = "button-l"
	ButtonS  TypographyRole = "button-s"
	MenuBold TypographyRole = "menu-bold"
	Body     TypographyRole = "body"
	BodyS    TypographyRole = "body-s"
)

var typographySize = map[TypographyRole]string{
	H1:       "text-3xl md:text-5xl",
	H2:       "text-2xl md:text-4xl",
	H3:       "text-xl md:text-2xl",
	ButtonXL: "text-lg",
	BodyS:    "text-md",
}

// Typography returns the CSS class tokens of a role: the weight token, then the size
// token, each only when the role defines one. Unknown roles yield no tokens.
func Typography(role TypographyRole) []string {
	classes := []string{}

	switch {
	case role == H1 || role == H2:
		classes = append(classes, "font-bold")
	case role == H3 || strings.HasPrefix(string(role), "button"):
		classes = append(classes, "font-semibold")
	case role == MenuBold:
		classes = append(classes, "font-medium")
	}

	if size, ok := typographySize[role]; ok {
		classes = append(classes, size)
	}
	return classes
}

// TypographyClass joins Typography tokens into a class attribute value.
func TypographyClass(role TypographyRole) string {
	return strings.Join(Typography(role), " ")
}

// Button styles.
const (
	ButtonPrimary   = "bg-gray-900 text-white hover:bg-white hover:text-gray-900"
	ButtonSecondary = "bg-white text-gray-900 hover:bg-gray-200 shadow-secondary-btn"
	ButtonLink      = "text-gray-900 p-0 hover:underline"
)
