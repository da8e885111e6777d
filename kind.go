package micropdf

// Kind classifies the resource a store entry indexes.
// Per-kind budgets and bulk evictions are scoped by it.
type Kind uint8

// Resource kinds, matching the classes of derived,
// re-creatable data a renderer produces.
const (
	KindGeneric Kind = iota
	KindFont
	KindImage
	KindColorspace
	KindPath
	KindShade
	KindGlyph
	KindDisplayList
	KindDocument
	KindPage
	kindCount // Sentinel; keep last.
)

func (k Kind) valid() bool { return k < kindCount }

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindFont:
		return "font"
	case KindImage:
		return "image"
	case KindColorspace:
		return "colorspace"
	case KindPath:
		return "path"
	case KindShade:
		return "shade"
	case KindGlyph:
		return "glyph"
	case KindDisplayList:
		return "display-list"
	case KindDocument:
		return "document"
	case KindPage:
		return "page"
	default:
		return "invalid"
	}
}
