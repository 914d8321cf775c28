/*
Package server exposes a tokenizer and a parse table over HTTP.

	POST /parse     - {"input": "..."} -> the syntax tree of the input
	POST /tokenize  - {"input": "..."} -> the tokens of the input
	GET  /report    - the rule table and the parse table
*/
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'lrgen.server'.
func tracer() tracing.Trace {
	return tracing.Select("lrgen.server")
}

const RequestIDHeader = "X-Request-Id"

type ctxKey int

const ctxKeyRequestID ctxKey = iota

// RequestID returns the id assigned to the request a context belongs to.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// Server serves one tokenizer and one parse table. Both are immutable, so requests run without locking.
type Server struct {
	tokenizer *lexer.Tokenizer
	table     *grammar.ParseTable
	router    chi.Router
}

func New(tokenizer *lexer.Tokenizer, table *grammar.ParseTable) *Server {
	s := &Server{
		tokenizer: tokenizer,
		table:     table,
	}
	s.router = s.newRouter()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	s.router.ServeHTTP(w, req)
}

// ListenAndServe serves requests on addr until the listener fails.
func (s *Server) ListenAndServe(addr string) error {
	tracer().Infof("listening on %s", addr)
	return http.ListenAndServe(addr, s)
}

func (s *Server) newRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(assignRequestID)

	r.Post("/parse", s.handleParse)
	r.Post("/tokenize", s.handleTokenize)
	r.Get("/report", s.handleReport)

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		jsonNotFound().writeResponse(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		jsonMethodNotAllowed(req).writeResponse(w, req)
	})

	return r
}

// assignRequestID tags every request with a fresh id, echoed in the response header.
func assignRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		tracer().Debugf("%v %v %v", id, req.Method, req.URL.Path)
		ctx := context.WithValue(req.Context(), ctxKeyRequestID, id)
		next.ServeHTTP(w, req.WithContext(ctx))
	})
}
