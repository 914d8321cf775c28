package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/nihei9/lrgen/driver"
	"github.com/nihei9/lrgen/lexer"
)

// InputRequest is the body of /parse and /tokenize.
type InputRequest struct {
	Input string `json:"input"`
}

// SyntaxErrorModel describes the token a parse stopped at.
type SyntaxErrorModel struct {
	Message  string      `json:"message"`
	Token    string      `json:"token"`
	Value    interface{} `json:"value,omitempty"`
	Line     int         `json:"line"`
	Pos      int         `json:"pos"`
	Expected []string    `json:"expected"`
}

// UnmatchedModel describes the input no token rule matches.
type UnmatchedModel struct {
	Message string `json:"message"`
	Rest    string `json:"rest"`
	Line    int    `json:"line"`
	Pos     int    `json:"pos"`
}

type ParseResponse struct {
	Accepted    bool              `json:"accepted"`
	Tree        *driver.Node      `json:"tree,omitempty"`
	SExpr       string            `json:"sexpr,omitempty"`
	SyntaxError *SyntaxErrorModel `json:"syntax_error,omitempty"`
	Unmatched   *UnmatchedModel   `json:"unmatched,omitempty"`
}

type TokenModel struct {
	Type  string      `json:"type"`
	Value interface{} `json:"value"`
	Line  int         `json:"line"`
	Pos   int         `json:"pos"`
}

type TokenizeResponse struct {
	Tokens    []TokenModel    `json:"tokens"`
	Unmatched *UnmatchedModel `json:"unmatched,omitempty"`
}

type ReportResponse struct {
	Strategy   string   `json:"strategy"`
	States     int      `json:"states"`
	Terminals  []string `json:"terminals"`
	Rules      []string `json:"rules"`
	TokenRules string   `json:"token_rules"`
	ParseTable string   `json:"parse_table"`
}

func parseJSON(req *http.Request, v interface{}) error {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

func newUnmatchedModel(err error) *UnmatchedModel {
	var unmatched *lexer.UnmatchedError
	if !errors.As(err, &unmatched) {
		return nil
	}
	return &UnmatchedModel{
		Message: unmatched.Error(),
		Rest:    unmatched.Rest,
		Line:    unmatched.Line,
		Pos:     unmatched.Pos,
	}
}

// handleParse answers 200 for both accepted and rejected inputs; a rejection carries the syntax error or the
// unmatched input.
func (s *Server) handleParse(w http.ResponseWriter, req *http.Request) {
	var in InputRequest
	if err := parseJSON(req, &in); err != nil {
		jsonBadRequest(err.Error(), "%v", err).writeResponse(w, req)
		return
	}

	root, err := driver.Parse(s.table, s.tokenizer, in.Input, driver.StrictInput())
	if err != nil {
		var synErr *driver.SyntaxError
		if errors.As(err, &synErr) {
			jsonOK(ParseResponse{
				SyntaxError: &SyntaxErrorModel{
					Message:  synErr.Error(),
					Token:    synErr.Token.Type,
					Value:    synErr.Token.Value,
					Line:     synErr.Token.Line,
					Pos:      synErr.Token.Pos,
					Expected: synErr.Expected,
				},
			}, "rejected: %v", synErr).writeResponse(w, req)
			return
		}
		if unmatched := newUnmatchedModel(err); unmatched != nil {
			jsonOK(ParseResponse{
				Unmatched: unmatched,
			}, "rejected: %v", err).writeResponse(w, req)
			return
		}
		jsonInternalServerError("parse failed: %v", err).writeResponse(w, req)
		return
	}

	jsonOK(ParseResponse{
		Accepted: true,
		Tree:     root,
		SExpr:    root.SExpr(),
	}, "accepted").writeResponse(w, req)
}

func (s *Server) handleTokenize(w http.ResponseWriter, req *http.Request) {
	var in InputRequest
	if err := parseJSON(req, &in); err != nil {
		jsonBadRequest(err.Error(), "%v", err).writeResponse(w, req)
		return
	}

	stream := s.tokenizer.Input(in.Input)
	resp := TokenizeResponse{
		Tokens: []TokenModel{},
	}
	for _, tok := range lexer.Collect(stream) {
		resp.Tokens = append(resp.Tokens, TokenModel{
			Type:  tok.Type,
			Value: tok.Value,
			Line:  tok.Line,
			Pos:   tok.Pos,
		})
	}
	resp.Unmatched = newUnmatchedModel(stream.Err())

	jsonOK(resp, "%v tokens", len(resp.Tokens)).writeResponse(w, req)
}

func (s *Server) handleReport(w http.ResponseWriter, req *http.Request) {
	resp := ReportResponse{
		Strategy:   string(s.table.Strategy()),
		States:     s.table.StateCount(),
		Terminals:  s.table.Grammar().Terminals(),
		TokenRules: s.tokenizer.Report(),
		ParseTable: s.table.Report(),
	}
	for _, r := range s.table.Rules() {
		resp.Rules = append(resp.Rules, r.String())
	}
	jsonOK(resp, "report").writeResponse(w, req)
}
