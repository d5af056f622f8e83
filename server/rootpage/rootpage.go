// Package rootpage assembles the single page served to a simulation
// viewer: the fire grid view, the websocket bootstrap script, and the
// fan-in/throttle of every view's element updates into one outbound
// stream. Grounded on tabular/server/root_view.RootView.
package rootpage

import (
	"context"
	"html/template"
	"log"
	"time"

	"wildfire/server/fastview"
	"wildfire/server/gridview"

	"github.com/google/uuid"
	channerics "github.com/niceyeti/channerics/channels"
)

// Page is the main page's index.html: the container for the fire-grid
// view, and the fan-in point for its element-update channel.
type Page struct {
	runID   uuid.UUID
	views   []fastview.ViewComponent
	updates <-chan []fastview.EleUpdate
}

// New builds the page and the views it contains, wiring snapshotUpdates
// through gridview.Convert into the grid's EleUpdate stream.
func New(
	ctx context.Context,
	runID uuid.UUID,
	snapshotUpdates <-chan [][]int,
) *Page {
	views, err := fastview.NewViewBuilder[[][]int, [][]gridview.Cell]().
		WithContext(ctx).
		WithModel(snapshotUpdates, gridview.Convert).
		WithView(func(
			done <-chan struct{},
			cellUpdates <-chan [][]gridview.Cell,
		) fastview.ViewComponent {
			return gridview.NewFireGrid(done, cellUpdates, 12)
		}).
		Build()
	if err != nil {
		log.Fatal(err)
	}

	return &Page{
		runID:   runID,
		views:   views,
		updates: fanIn(ctx.Done(), views),
	}
}

// Updates returns the page's single, throttled element-update channel.
func (p *Page) Updates() <-chan []fastview.EleUpdate {
	return p.updates
}

// Parse builds the page's template -- websocket bootstrap, run id
// banner, and the nested view templates -- and returns its name.
func (p *Page) Parse(parent *template.Template) (name string, err error) {
	rt := parent.Funcs(
		template.FuncMap{
			"add":  func(i, j int) int { return i + j },
			"sub":  func(i, j int) int { return i - j },
			"mult": func(i, j int) int { return i * j },
			"div":  func(i, j int) int { return i / j },
		})

	var bodySpec string
	for _, vc := range p.views {
		tname, parseErr := vc.Parse(rt)
		if parseErr != nil {
			return "", parseErr
		}
		bodySpec += `{{ template "` + tname + `" . }}`
	}

	name = "mainpage"
	indexTemplate := `
	{{ define "` + name + `" }}
	<!DOCTYPE html>
	<html>
		<head>
			<link rel="icon" href="data:,">
			<title>wildfire run ` + p.runID.String() + `</title>
			<script>
				const ws = new WebSocket("ws://" + window.location.host + "/ws");
				ws.onopen = function (event) {
					console.log("websocket opened");
				};
				ws.onerror = function (event) {
					console.log("websocket error: ", event);
				};
				ws.onmessage = function (event) {
					const items = JSON.parse(event.data);
					for (const update of items) {
						const ele = document.getElementById(update.eleId);
						if (!ele) { continue; }
						for (const op of update.ops) {
							if (op.key === "textContent") {
								ele.textContent = op.value;
							} else {
								ele.setAttribute(op.key, op.value);
							}
						}
					}
				};
			</script>
		</head>
		<body>
			<h3>run ` + p.runID.String() + `</h3>
			` + bodySpec + `
		</body>
	</html>
	{{ end }}
	`

	_, err = rt.Parse(indexTemplate)
	return
}

// fanIn merges every view's element-update channel and throttles the
// merged stream, so bursts of per-cell updates from a single Step()
// collapse into one batch per element id.
func fanIn(done <-chan struct{}, views []fastview.ViewComponent) <-chan []fastview.EleUpdate {
	inputs := make([]<-chan []fastview.EleUpdate, len(views))
	for i, view := range views {
		inputs[i] = view.Updates()
	}
	return batchify(done, channerics.Merge(done, inputs...), time.Millisecond*50)
}

// batchify flushes the first batch at once, then coalesces updates
// arriving within rate of the last flush, keeping only the latest
// value per element id before flushing.
func batchify(
	done <-chan struct{},
	source <-chan []fastview.EleUpdate,
	rate time.Duration,
) <-chan []fastview.EleUpdate {
	output := make(chan []fastview.EleUpdate)

	go func() {
		defer close(output)

		pending := map[string]fastview.EleUpdate{}
		var last time.Time
		for updates := range channerics.OrDone(done, source) {
			for _, update := range updates {
				pending[update.EleId] = update
			}

			if time.Since(last) > rate && len(updates) > 0 {
				select {
				case output <- values(pending):
					pending = map[string]fastview.EleUpdate{}
					last = time.Now()
				case <-done:
					return
				}
			}
		}
	}()

	return output
}

func values[K comparable, V any](m map[K]V) (out []V) {
	out = make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return
}
