// Package server exposes one simulation run over HTTP: a single page
// rendering the fire grid, and a websocket pushing element updates as
// the engine advances. Grounded on tabular/server/server.go's
// handler/websocket-lifecycle shape, routed through gorilla/mux
// instead of the teacher's bare net/http mux.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"time"

	"wildfire/server/fastview"
	"wildfire/server/rootpage"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	channerics "github.com/niceyeti/channerics/channels"
)

var upgrader = websocket.Upgrader{}

const (
	writeWait        = 1 * time.Second
	pongWait         = 60 * time.Second
	pingPeriod       = (pongWait * 9) / 10
	closeGracePeriod = 10 * time.Second
)

// Server serves a single simulation run's page and websocket. Like
// its predecessor, it assumes one connected viewer at a time: the
// page's update channel has a single reader, so a second websocket
// would split updates with the first rather than mirror them.
// TODO: fan the page's update channel out per-connection to support
// multiple simultaneous viewers.
type Server struct {
	addr string
	page *rootpage.Page
}

// New builds the page wired to snapshotUpdates and returns a Server
// ready to Serve().
func New(
	ctx context.Context,
	addr string,
	runID uuid.UUID,
	snapshotUpdates <-chan [][]int,
) *Server {
	return &Server{
		addr: addr,
		page: rootpage.New(ctx, runID, snapshotUpdates),
	}
}

// Serve blocks, serving the page at / and the websocket at /ws.
func (s *Server) Serve() error {
	r := mux.NewRouter()
	r.HandleFunc("/", s.serveIndex).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWebsocket)

	if err := http.ListenAndServe(s.addr, r); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	if err := renderTemplate(w, s.page); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderTemplate(w io.Writer, vc fastview.ViewComponent) error {
	t := template.New("index.html")
	tname, err := vc.Parse(t)
	if err != nil {
		return err
	}
	if _, err := t.Parse(`{{ template "` + tname + `" . }}`); err != nil {
		return err
	}
	return t.Execute(w, nil)
}

// serveWebsocket upgrades the connection and streams the page's
// element updates to this one client until it disconnects.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer closeWebsocket(ws)
	publishEleUpdates(r.Context(), ws, s.page.Updates())
}

// publishEleUpdates pushes every batch the page emits to ws, with a
// ping/pong liveness check matching the teacher's discipline.
func publishEleUpdates(
	ctx context.Context,
	ws *websocket.Conn,
	updates <-chan []fastview.EleUpdate,
) {
	pubCtx, cancelPub := context.WithCancel(ctx)
	defer cancelPub()

	pinger := channerics.NewTicker(pubCtx.Done(), pingPeriod/9)
	lastPong := time.Now()

	pong := make(chan struct{})
	defer close(pong)
	ws.SetPongHandler(func(string) error {
		select {
		case pong <- struct{}{}:
		case <-pubCtx.Done():
		}
		return nil
	})

	go func() {
		for {
			select {
			case <-pubCtx.Done():
				return
			default:
				if _, _, err := ws.ReadMessage(); err != nil {
					cancelPub()
					return
				}
			}
		}
	}()

	for {
		select {
		case <-pubCtx.Done():
			return
		case <-pinger:
			if time.Since(lastPong) > pingPeriod*2 {
				return
			}
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-pong:
			lastPong = time.Now()
		case batch, ok := <-updates:
			if !ok {
				return
			}
			if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := ws.WriteJSON(batch); err != nil {
				if isUnexpectedClose(err) {
					log.Println("publish:", err)
				}
				return
			}
		}
	}
}

func isUnexpectedClose(err error) bool {
	return err != nil && websocket.IsUnexpectedCloseError(
		err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway)
}

func closeWebsocket(ws *websocket.Conn) {
	_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
	_ = ws.WriteMessage(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	time.Sleep(closeGracePeriod)
	ws.Close()
}
