package ui

import "github.com/a-h/templ"

// Table wraps a table in a horizontally scrollable container.
func Table(p Props, children ...templ.Component) templ.Component {
	return Tag("div", Attrs{"class": "relative w-full overflow-auto"},
		Tag("table", p.attrs("w-full caption-bottom text-sm"), children...))
}

func TableHeader(p Props, children ...templ.Component) templ.Component {
	return Tag("thead", p.attrs("[&_tr]:border-b"), children...)
}

func TableBody(p Props, children ...templ.Component) templ.Component {
	return Tag("tbody", p.attrs("[&_tr:last-child]:border-0"), children...)
}

func TableFooter(p Props, children ...templ.Component) templ.Component {
	return Tag("tfoot", p.attrs("border-t bg-muted/50 font-medium [&>tr]:last:border-b-0"), children...)
}

func TableRow(p Props, children ...templ.Component) templ.Component {
	return Tag("tr", p.attrs("border-b transition-colors hover:bg-muted/50 data-[state=selected]:bg-muted"), children...)
}

func TableHead(p Props, children ...templ.Component) templ.Component {
	return Tag("th", p.attrs("h-10 px-2 text-left align-middle font-medium text-muted-foreground"), children...)
}

func TableCell(p Props, children ...templ.Component) templ.Component {
	return Tag("td", p.attrs("p-2 align-middle"), children...)
}

func TableCaption(p Props, children ...templ.Component) templ.Component {
	return Tag("caption", p.attrs("mt-4 text-sm text-muted-foreground"), children...)
}
