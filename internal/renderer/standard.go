package renderer

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/kelas-internasional/kelas/internal/registry"
	"github.com/kelas-internasional/kelas/internal/richtext"
	"github.com/kelas-internasional/kelas/internal/ui"
)

// blockTags are the children that turn a paragraph into a div, since a
// block inside <p> is invalid HTML.
var blockTags = map[string]bool{
	"div": true, "section": true, "article": true, "aside": true,
	"header": true, "footer": true, "nav": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true, "dl": true, "dt": true, "dd": true,
	"table": true, "thead": true, "tbody": true, "tr": true, "td": true, "th": true,
	"form": true, "fieldset": true, "legend": true,
	"blockquote": true, "pre": true, "hr": true,
	"Card": true, "Alert": true, "Tabs": true, "Table": true, "Accordion": true,
}

// HasBlockChild reports whether any immediate child is a block tag.
// Grandchildren are not inspected.
func HasBlockChild(children []*richtext.Node) bool {
	for _, c := range children {
		if (c.Kind == richtext.KindElement || c.Kind == richtext.KindComponent) && blockTags[c.Tag] {
			return true
		}
	}
	return false
}

const paragraphClass = "leading-7 mb-6 [&:not(:first-child)]:mt-6"

// Paragraph renders p, or div when a direct child is a block.
func Paragraph(el registry.Element, children templ.Component) templ.Component {
	tag := "p"
	if HasBlockChild(el.Children) {
		tag = "div"
	}
	return styledTag(tag, paragraphClass)(el, children)
}

// styledTag renders el as tag with a base class merged before the
// author's own.
func styledTag(tag, class string) registry.Component {
	return func(el registry.Element, children templ.Component) templ.Component {
		attrs := Attrs(el.Props)
		attrs["class"] = ui.Cn(class, attrs["class"])
		return ui.Tag(tag, attrs, children)
	}
}

// passthrough keeps the attributes a primitive does not consume itself.
func passthrough(p registry.Props) ui.Attrs {
	out := ui.Attrs{}
	for k, v := range Attrs(p) {
		switch {
		case strings.HasPrefix(k, "data-"), strings.HasPrefix(k, "aria-"):
			out[k] = v
		case k == "title", k == "role", k == "name", k == "placeholder", k == "for", k == "type", k == "rows":
			out[k] = v
		}
	}
	return out
}

func props(el registry.Element, class string) ui.Props {
	return ui.Props{
		ID:    el.Props.String("id"),
		Class: ui.Cn(class, el.Props.Class()),
		Attrs: passthrough(el.Props),
	}
}

type simple func(ui.Props, ...templ.Component) templ.Component

func wrap(fn simple, class string) registry.Component {
	return func(el registry.Element, children templ.Component) templ.Component {
		return fn(props(el, class), children)
	}
}

// Standard returns the registry used for authored content: typography for
// the markdown constructs plus every UI primitive documents may use.
func Standard() *registry.Registry {
	r := registry.New()

	r.Register("h1", styledTag("h1", "scroll-m-20 text-4xl font-extrabold tracking-tight lg:text-5xl mt-8 mb-6 first:mt-0"))
	r.Register("h2", styledTag("h2", "scroll-m-20 border-b pb-2 text-3xl font-semibold tracking-tight mt-12 mb-6 first:mt-0"))
	r.Register("h3", styledTag("h3", "scroll-m-20 text-2xl font-semibold tracking-tight mt-10 mb-4"))
	r.Register("h4", styledTag("h4", "scroll-m-20 text-xl font-semibold tracking-tight mt-8 mb-3"))
	r.Register("h5", styledTag("h5", "scroll-m-20 text-lg font-semibold tracking-tight mt-6 mb-2"))
	r.Register("h6", styledTag("h6", "scroll-m-20 text-base font-semibold tracking-tight mt-6 mb-2"))
	r.Register("p", Paragraph)
	r.Register("blockquote", styledTag("blockquote", "mt-6 border-l-2 pl-6 italic mb-6"))
	r.Register("ul", styledTag("ul", "my-6 ml-6 list-disc [&>li]:mt-2 space-y-2"))
	r.Register("ol", styledTag("ol", "my-6 ml-6 list-decimal [&>li]:mt-2 space-y-2"))
	r.Register("li", styledTag("li", "mt-2 leading-7"))
	r.Register("hr", styledTag("hr", "my-8 md:my-12"))
	r.Register("code", styledTag("code", "relative rounded bg-muted px-[0.3rem] py-[0.2rem] font-mono text-sm font-semibold"))
	r.Register("pre", styledTag("pre", "mb-6 mt-6 overflow-x-auto rounded-lg border bg-muted p-4"))
	r.Register("strong", styledTag("strong", "font-semibold"))
	r.Register("em", styledTag("em", "italic"))
	r.Register("a", styledTag("a", "font-medium text-primary underline underline-offset-4 hover:no-underline"))

	r.Register("Image", func(el registry.Element, _ templ.Component) templ.Component {
		w, _ := el.Props.Float("width")
		h, _ := el.Props.Float("height")
		return ui.Image(ui.ImageProps{
			Props:  props(el, ""),
			Src:    el.Props.String("src"),
			Alt:    el.Props.String("alt"),
			Width:  int(w),
			Height: int(h),
		})
	})
	r.Register("Link", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Link(props(el, ""), el.Props.String("href"), children)
	})

	r.Register("Card", wrap(ui.Card, "my-6"))
	r.Register("CardHeader", wrap(ui.CardHeader, ""))
	r.Register("CardTitle", wrap(ui.CardTitle, ""))
	r.Register("CardDescription", wrap(ui.CardDescription, ""))
	r.Register("CardContent", wrap(ui.CardContent, ""))
	r.Register("CardFooter", wrap(ui.CardFooter, ""))

	r.Register("Alert", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Alert(props(el, "my-6"), ui.AlertVariant(el.Props.String("variant")), children)
	})
	r.Register("AlertTitle", wrap(ui.AlertTitle, ""))
	r.Register("AlertDescription", wrap(ui.AlertDescription, ""))

	r.Register("Badge", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Badge(props(el, ""), ui.Variant(el.Props.String("variant")), children)
	})
	r.Register("Button", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Button(ui.ButtonProps{
			Props:   props(el, ""),
			Variant: ui.Variant(el.Props.String("variant")),
			Size:    el.Props.String("size"),
			Href:    el.Props.String("href"),
		}, children)
	})
	r.Register("Separator", func(el registry.Element, _ templ.Component) templ.Component {
		return ui.Tag("div", ui.Attrs{"class": "my-8"},
			ui.Separator(props(el, ""), el.Props.String("orientation") == "vertical"))
	})
	r.Register("Progress", func(el registry.Element, _ templ.Component) templ.Component {
		value, _ := el.Props.Float("value")
		return ui.Tag("div", ui.Attrs{"class": "my-4"}, ui.Progress(props(el, ""), value))
	})

	r.Register("Table", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Tag("div", ui.Attrs{"class": "my-6"}, ui.Table(props(el, ""), children))
	})
	r.Register("TableHeader", wrap(ui.TableHeader, ""))
	r.Register("TableBody", wrap(ui.TableBody, ""))
	r.Register("TableFooter", wrap(ui.TableFooter, ""))
	r.Register("TableRow", wrap(ui.TableRow, ""))
	r.Register("TableHead", wrap(ui.TableHead, ""))
	r.Register("TableCell", wrap(ui.TableCell, ""))
	r.Register("TableCaption", wrap(ui.TableCaption, ""))

	r.Register("Tabs", func(el registry.Element, children templ.Component) templ.Component {
		return ui.Tabs(props(el, "my-6"), el.Props.String("defaultValue"), children)
	})
	r.Register("TabsList", wrap(ui.TabsList, ""))
	r.Register("TabsTrigger", func(el registry.Element, children templ.Component) templ.Component {
		return ui.TabsTrigger(props(el, ""), el.Props.String("value"), children)
	})
	r.Register("TabsContent", func(el registry.Element, children templ.Component) templ.Component {
		return ui.TabsContent(props(el, ""), el.Props.String("value"), children)
	})

	r.Register("Accordion", wrap(ui.Accordion, "my-6"))
	r.Register("AccordionItem", func(el registry.Element, children templ.Component) templ.Component {
		return ui.AccordionItem(props(el, ""), el.Props.String("value"), el.Props.Bool("open"), children)
	})
	r.Register("AccordionTrigger", wrap(ui.AccordionTrigger, ""))
	r.Register("AccordionContent", wrap(ui.AccordionContent, ""))

	r.Register("Avatar", wrap(ui.Avatar, ""))
	r.Register("AvatarImage", func(el registry.Element, _ templ.Component) templ.Component {
		return ui.AvatarImage(props(el, ""), el.Props.String("src"), el.Props.String("alt"))
	})
	r.Register("AvatarFallback", wrap(ui.AvatarFallback, ""))

	r.Register("Label", wrap(ui.Label, ""))
	r.Register("Textarea", wrap(ui.Textarea, ""))
	r.Register("Input", func(el registry.Element, _ templ.Component) templ.Component {
		return ui.Input(props(el, ""))
	})
	r.Register("Checkbox", func(el registry.Element, _ templ.Component) templ.Component {
		return ui.Checkbox(props(el, ""), el.Props.Bool("checked") || el.Props.Bool("defaultChecked"))
	})

	return r
}
