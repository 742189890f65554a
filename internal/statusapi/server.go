package statusapi

import (
	"encoding/json"
	"net"
	"time"

	"github.com/park285/checkers-bot-tournament/pkg/resultdto"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Server exposes a Tracker over HTTP:
//
//	GET /healthz    liveness
//	GET /progress   games done out of total
//	GET /standings  provisional or final table
//	GET /matches    finished games
type Server struct {
	tracker *Tracker
	logger  *zap.Logger
	srv     *fasthttp.Server
}

func NewServer(tracker *Tracker, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{tracker: tracker, logger: logger}
	s.srv = &fasthttp.Server{
		Handler:      s.Handle,
		Name:         "checkers-status",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handle(ctx *fasthttp.RequestCtx) {
	if !ctx.IsGet() && !ctx.IsHead() {
		writeJSON(ctx, fasthttp.StatusMethodNotAllowed, resultdto.Error{Code: "method_not_allowed", Message: "only GET is supported"})
		return
	}
	switch string(ctx.Path()) {
	case "/healthz":
		writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
	case "/progress":
		writeJSON(ctx, fasthttp.StatusOK, s.tracker.Progress())
	case "/standings":
		writeJSON(ctx, fasthttp.StatusOK, s.tracker.Standings())
	case "/matches":
		writeJSON(ctx, fasthttp.StatusOK, s.tracker.Matches())
	default:
		writeJSON(ctx, fasthttp.StatusNotFound, resultdto.Error{Code: "not_found", Message: "unknown path " + string(ctx.Path())})
	}
}

// Serve blocks serving ln until Shutdown.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("status_api_listen", zap.String("addr", ln.Addr().String()))
	return s.srv.Serve(ln)
}

func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

func (s *Server) Shutdown() error { return s.srv.Shutdown() }

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"code":"encode_failed"}`)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
