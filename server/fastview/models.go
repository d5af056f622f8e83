package fastview

import "html/template"

// Op is a single DOM attribute/text mutation: set element attribute
// Key to Value (the browser-side bootstrap script interprets
// "textContent" as the element's textContent rather than an attribute
// name).
type Op struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// EleUpdate batches the Ops to apply to one DOM element, addressed by
// its id attribute.
type EleUpdate struct {
	EleId string `json:"eleId"`
	Ops   []Op   `json:"ops"`
}

// ViewComponent is anything ViewBuilder can wire up: it renders its
// own template fragment and emits diffs as the underlying view model
// changes.
type ViewComponent interface {
	// Updates streams batches of DOM mutations as the view's backing
	// data changes; closed when the component's input is exhausted.
	Updates() <-chan []EleUpdate
	// Parse registers the component's markup into t and returns the
	// template name the root page should render.
	Parse(t *template.Template) (name string, err error)
}
