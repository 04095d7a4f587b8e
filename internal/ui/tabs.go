package ui

import (
	"strconv"

	"github.com/a-h/templ"
)

// Tabs groups a tab list with its panels. Panels other than the default
// one are hidden; the layout script switches them on click.
func Tabs(p Props, defaultValue string, children ...templ.Component) templ.Component {
	attrs := p.attrs("")
	attrs["data-tabs"] = ""
	if defaultValue != "" {
		attrs["data-default-value"] = defaultValue
	}
	return Tag("div", attrs, children...)
}

func TabsList(p Props, children ...templ.Component) templ.Component {
	attrs := p.attrs("inline-flex h-9 items-center justify-center rounded-lg bg-muted p-1 text-muted-foreground")
	attrs["role"] = "tablist"
	return Tag("div", attrs, children...)
}

func TabsTrigger(p Props, value string, children ...templ.Component) templ.Component {
	attrs := p.attrs("inline-flex items-center justify-center whitespace-nowrap rounded-md px-3 py-1 text-sm font-medium transition-all data-[state=active]:bg-background data-[state=active]:text-foreground data-[state=active]:shadow")
	attrs["type"] = "button"
	attrs["role"] = "tab"
	attrs["data-value"] = value
	return Tag("button", attrs, children...)
}

func TabsContent(p Props, value string, children ...templ.Component) templ.Component {
	attrs := p.attrs("mt-2 ring-offset-background focus-visible:outline-none")
	attrs["role"] = "tabpanel"
	attrs["data-value"] = value
	return Tag("div", attrs, children...)
}

// Accordion is a list of collapsible sections built on details/summary.
func Accordion(p Props, children ...templ.Component) templ.Component {
	return div(p, "", children...)
}

func AccordionItem(p Props, value string, open bool, children ...templ.Component) templ.Component {
	attrs := p.attrs("border-b group")
	if value != "" {
		attrs["data-value"] = value
	}
	if open {
		attrs["open"] = "open"
	}
	return Tag("details", attrs, children...)
}

func AccordionTrigger(p Props, children ...templ.Component) templ.Component {
	return Tag("summary", p.attrs("flex flex-1 cursor-pointer items-center justify-between py-4 text-sm font-medium transition-all hover:underline"), children...)
}

func AccordionContent(p Props, children ...templ.Component) templ.Component {
	return div(p, "overflow-hidden pb-4 pt-0 text-sm", children...)
}

// Avatar is a round frame for a profile picture.
func Avatar(p Props, children ...templ.Component) templ.Component {
	return Tag("span", p.attrs("relative flex h-10 w-10 shrink-0 overflow-hidden rounded-full"), children...)
}

func AvatarImage(p Props, src, alt string) templ.Component {
	attrs := p.attrs("aspect-square h-full w-full")
	attrs["src"] = src
	attrs["alt"] = alt
	return Tag("img", attrs)
}

func AvatarFallback(p Props, children ...templ.Component) templ.Component {
	return Tag("span", p.attrs("flex h-full w-full items-center justify-center rounded-full bg-muted"), children...)
}

// ImageProps configures Image.
type ImageProps struct {
	Props
	Src    string
	Alt    string
	Width  int
	Height int
}

// Image renders a lazily loaded image.
func Image(p ImageProps) templ.Component {
	attrs := p.attrs("")
	attrs["src"] = p.Src
	attrs["alt"] = p.Alt
	attrs["loading"] = "lazy"
	if p.Width > 0 {
		attrs["width"] = strconv.Itoa(p.Width)
	}
	if p.Height > 0 {
		attrs["height"] = strconv.Itoa(p.Height)
	}
	return Tag("img", attrs)
}

// Link is a plain anchor.
func Link(p Props, href string, children ...templ.Component) templ.Component {
	attrs := p.attrs("")
	attrs["href"] = href
	return Tag("a", attrs, children...)
}

func Label(p Props, children ...templ.Component) templ.Component {
	return Tag("label", p.attrs("text-sm font-medium leading-none peer-disabled:cursor-not-allowed peer-disabled:opacity-70"), children...)
}

func Input(p Props) templ.Component {
	return Tag("input", p.attrs("flex h-9 w-full rounded-md border border-input bg-transparent px-3 py-1 text-base shadow-sm transition-colors placeholder:text-muted-foreground focus-visible:outline-none focus-visible:ring-1 focus-visible:ring-ring md:text-sm"))
}

func Textarea(p Props, children ...templ.Component) templ.Component {
	return Tag("textarea", p.attrs("flex min-h-[60px] w-full rounded-md border border-input bg-transparent px-3 py-2 text-base shadow-sm placeholder:text-muted-foreground focus-visible:outline-none focus-visible:ring-1 focus-visible:ring-ring md:text-sm"), children...)
}

func Checkbox(p Props, checked bool) templ.Component {
	attrs := p.attrs("peer h-4 w-4 shrink-0 rounded-sm border border-primary shadow")
	attrs["type"] = "checkbox"
	if checked {
		attrs["checked"] = "checked"
	}
	return Tag("input", attrs)
}
