package ui

import (
	"strconv"

	"github.com/a-h/templ"
)

// Variant names shared by Badge and Button.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantSecondary   Variant = "secondary"
	VariantDestructive Variant = "destructive"
	VariantOutline     Variant = "outline"
	VariantGhost       Variant = "ghost"
	VariantLink        Variant = "link"
)

var badgeVariants = map[Variant]string{
	VariantDefault:     "border-transparent bg-primary text-primary-foreground shadow hover:bg-primary/80",
	VariantSecondary:   "border-transparent bg-secondary text-secondary-foreground hover:bg-secondary/80",
	VariantDestructive: "border-transparent bg-destructive text-destructive-foreground shadow hover:bg-destructive/80",
	VariantOutline:     "text-foreground",
}

// Badge is a small inline label.
func Badge(p Props, variant Variant, children ...templ.Component) templ.Component {
	v, ok := badgeVariants[variant]
	if !ok {
		v = badgeVariants[VariantDefault]
	}
	return div(p, Cn("inline-flex items-center rounded-md border px-2.5 py-0.5 text-xs font-semibold transition-colors", v), children...)
}

var buttonVariants = map[Variant]string{
	VariantDefault:     "bg-primary text-primary-foreground shadow hover:bg-primary/90",
	VariantSecondary:   "bg-secondary text-secondary-foreground shadow-sm hover:bg-secondary/80",
	VariantDestructive: "bg-destructive text-destructive-foreground shadow-sm hover:bg-destructive/90",
	VariantOutline:     "border border-input bg-background shadow-sm hover:bg-accent hover:text-accent-foreground",
	VariantGhost:       "hover:bg-accent hover:text-accent-foreground",
	VariantLink:        "text-primary underline-offset-4 hover:underline",
}

var buttonSizes = map[string]string{
	"default": "h-9 px-4 py-2",
	"sm":      "h-8 rounded-md px-3 text-xs",
	"lg":      "h-10 rounded-md px-8",
	"icon":    "h-9 w-9",
}

// ButtonProps configures Button.
type ButtonProps struct {
	Props
	Variant Variant
	Size    string
	// Href renders the button as a link.
	Href string
}

// Button renders a button, or an anchor styled as one when Href is set.
func Button(p ButtonProps, children ...templ.Component) templ.Component {
	v, ok := buttonVariants[p.Variant]
	if !ok {
		v = buttonVariants[VariantDefault]
	}
	size, ok := buttonSizes[p.Size]
	if !ok {
		size = buttonSizes["default"]
	}
	base := Cn("inline-flex items-center justify-center gap-2 whitespace-nowrap rounded-md text-sm font-medium transition-colors focus-visible:outline-none focus-visible:ring-1 focus-visible:ring-ring disabled:pointer-events-none disabled:opacity-50", v, size)

	attrs := p.attrs(base)
	if p.Href != "" {
		attrs["href"] = p.Href
		return Tag("a", attrs, children...)
	}
	if _, ok := attrs["type"]; !ok {
		attrs["type"] = "button"
	}
	return Tag("button", attrs, children...)
}

// Separator is a thin horizontal or vertical rule.
func Separator(p Props, vertical bool) templ.Component {
	orientation := "horizontal"
	size := "h-[1px] w-full"
	if vertical {
		orientation = "vertical"
		size = "h-full w-[1px]"
	}
	attrs := p.attrs(Cn("shrink-0 bg-border", size))
	attrs["role"] = "separator"
	attrs["data-orientation"] = orientation
	return Tag("div", attrs)
}

// Progress renders a bar filled to value percent. Values are clamped to
// [0, 100].
func Progress(p Props, value float64) templ.Component {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	pct := strconv.FormatFloat(value, 'f', -1, 64)

	attrs := p.attrs("relative h-2 w-full overflow-hidden rounded-full bg-primary/20")
	attrs["role"] = "progressbar"
	attrs["aria-valuemin"] = "0"
	attrs["aria-valuemax"] = "100"
	attrs["aria-valuenow"] = pct

	indicator := Tag("div", Attrs{
		"class": "h-full w-full flex-1 bg-primary transition-all",
		"style": "transform: translateX(-" + strconv.FormatFloat(100-value, 'f', -1, 64) + "%)",
	})
	return Tag("div", attrs, indicator)
}
