package analysis

import "strings"

var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	"|", `\|`,
	"#", `\#`,
)

// inline makes user text safe to embed in a single Markdown line.
func inline(s string) string {
	return mdEscaper.Replace(strings.Join(strings.Fields(s), " "))
}

// InlineMarkdown is inline for callers outside the package.
func InlineMarkdown(s string) string { return inline(s) }
