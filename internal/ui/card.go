package ui

import "github.com/a-h/templ"

// Card is a bordered surface grouping related content.
func Card(p Props, children ...templ.Component) templ.Component {
	return div(p, "rounded-xl border bg-card text-card-foreground shadow", children...)
}

func CardHeader(p Props, children ...templ.Component) templ.Component {
	return div(p, "flex flex-col space-y-1.5 p-6", children...)
}

func CardTitle(p Props, children ...templ.Component) templ.Component {
	return div(p, "font-semibold leading-none tracking-tight", children...)
}

func CardDescription(p Props, children ...templ.Component) templ.Component {
	return div(p, "text-sm text-muted-foreground", children...)
}

func CardContent(p Props, children ...templ.Component) templ.Component {
	return div(p, "p-6 pt-0", children...)
}

func CardFooter(p Props, children ...templ.Component) templ.Component {
	return div(p, "flex items-center p-6 pt-0", children...)
}

// AlertVariant selects the alert colour scheme.
type AlertVariant string

const (
	AlertDefault     AlertVariant = "default"
	AlertDestructive AlertVariant = "destructive"
)

var alertVariants = map[AlertVariant]string{
	AlertDefault:     "bg-background text-foreground",
	AlertDestructive: "border-destructive/50 text-destructive dark:border-destructive [&>svg]:text-destructive",
}

// Alert is a callout box.
func Alert(p Props, variant AlertVariant, children ...templ.Component) templ.Component {
	v, ok := alertVariants[variant]
	if !ok {
		v = alertVariants[AlertDefault]
	}
	attrs := p.attrs(Cn("relative w-full rounded-lg border px-4 py-3 text-sm", v))
	attrs["role"] = "alert"
	return Tag("div", attrs, children...)
}

func AlertTitle(p Props, children ...templ.Component) templ.Component {
	return Tag("h5", p.attrs("mb-1 font-medium leading-none tracking-tight"), children...)
}

func AlertDescription(p Props, children ...templ.Component) templ.Component {
	return div(p, "text-sm [&_p]:leading-relaxed", children...)
}
