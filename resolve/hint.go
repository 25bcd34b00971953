package resolve

import (
	"fmt"
	"strings"
)

// Hint is the category of file the host framework is asking for.
type Hint int

const (
	// HintDefault carries no category and never implies an extension.
	HintDefault Hint = iota
	FontFile
	CompiledShapeFile
	TrueTypeFontFile
	EmbeddedImageFile
	XRefDrawing
	PatternFile
	ApplicationModule
	FontMapFile
)

var hintNames = map[Hint]string{
	HintDefault:       "Default",
	FontFile:          "FontFile",
	CompiledShapeFile: "CompiledShapeFile",
	TrueTypeFontFile:  "TrueTypeFontFile",
	EmbeddedImageFile: "EmbeddedImageFile",
	XRefDrawing:       "XRefDrawing",
	PatternFile:       "PatternFile",
	ApplicationModule: "ApplicationModule",
	FontMapFile:       "FontMapFile",
}

// Extension returns the canonical extension for the category, including the
// leading dot. Generic fonts and embedded images come in several formats and
// have none.
func (h Hint) Extension() string {
	switch h {
	case CompiledShapeFile:
		return ".shx"
	case TrueTypeFontFile:
		return ".ttf"
	case PatternFile:
		return ".pat"
	case ApplicationModule:
		return ".dbx"
	case FontMapFile:
		return ".fmp"
	case XRefDrawing:
		return ".dwg"
	default:
		return ""
	}
}

func (h Hint) String() string {
	if name, ok := hintNames[h]; ok {
		return name
	}
	return fmt.Sprintf("Hint(%d)", int(h))
}

// ParseHint accepts a hint name, case-insensitively.
func ParseHint(s string) (Hint, error) {
	for h, name := range hintNames {
		if strings.EqualFold(name, s) {
			return h, nil
		}
	}
	return HintDefault, fmt.Errorf("unknown resolution hint %q", s)
}

// Hints lists every known category in declaration order.
func Hints() []Hint {
	return []Hint{
		HintDefault, FontFile, CompiledShapeFile, TrueTypeFontFile,
		EmbeddedImageFile, XRefDrawing, PatternFile, ApplicationModule, FontMapFile,
	}
}

// WithExtension appends the hint's extension when the base name has no dot.
// Both slash styles count as separators, so Windows-style names from the
// host behave the same on every platform.
func WithExtension(fileName string, hint Hint) string {
	base := fileName
	if i := strings.LastIndexAny(fileName, `/\`); i >= 0 {
		base = fileName[i+1:]
	}
	if strings.Contains(base, ".") {
		return fileName
	}
	return fileName + hint.Extension()
}
