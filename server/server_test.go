package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/nihei9/lrgen/grammar"
	"github.com/nihei9/lrgen/lexer"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	tok, err := lexer.Build(&lexer.Spec{
		Tokens:      []string{"NUMBER", "PLUS"},
		IgnoreChars: " ",
		Rules: []*lexer.RuleSpec{
			{Name: "NUMBER", Pattern: `\d+`, Action: lexer.ActionInt, Kind: lexer.RuleKindAction},
			{Name: "PLUS", Pattern: `\+`},
		},
	})
	require.NoError(t, err)

	start := grammar.NewRule("E", grammar.T("NUMBER"), grammar.T("PLUS"), grammar.NT("E"))
	g, err := grammar.NewGrammar([]*grammar.Rule{
		start,
		grammar.NewRule("E", grammar.T("NUMBER")),
	}, start)
	require.NoError(t, err)
	tab, err := grammar.BuildParseTable(g, grammar.LR1)
	require.NoError(t, err)

	return New(tok, tab)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	return w
}

func TestServer_Parse(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "lrgen.server")
	defer teardown()

	s := newTestServer(t)

	t.Run("accepted", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/parse", `{"input": "3 + 5"}`)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Accepted)
		assert.Equal(t, "(E (NUMBER 3) (PLUS +) (E (NUMBER 5)))", resp.SExpr)
		require.NotNil(t, resp.Tree)
		assert.Equal(t, "E", resp.Tree.Type)
		require.Len(t, resp.Tree.Children, 3)
		assert.Equal(t, float64(3), resp.Tree.Children[0].Value)
	})

	t.Run("syntax error", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/parse", `{"input": "3 + + 5"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Accepted)
		require.NotNil(t, resp.SyntaxError)
		assert.Equal(t, "PLUS", resp.SyntaxError.Token)
		assert.Equal(t, 3, resp.SyntaxError.Pos)
		assert.Equal(t, []string{"NUMBER"}, resp.SyntaxError.Expected)
	})

	t.Run("unmatched input", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/parse", `{"input": "3+5@"}`)
		require.Equal(t, http.StatusOK, w.Code)

		var resp ParseResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Accepted)
		assert.Nil(t, resp.SyntaxError)
		require.NotNil(t, resp.Unmatched)
		assert.Equal(t, "@", resp.Unmatched.Rest)
		assert.Equal(t, 3, resp.Unmatched.Pos)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := do(t, s, http.MethodPost, "/parse", `{"text": "3"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})
}

func TestServer_Tokenize(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/tokenize", `{"input": "12 + 3x"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp TokenizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Tokens, 3)
	assert.Equal(t, "NUMBER", resp.Tokens[0].Type)
	assert.Equal(t, float64(12), resp.Tokens[0].Value)
	assert.Equal(t, 2, resp.Tokens[0].Pos)
	assert.Equal(t, "PLUS", resp.Tokens[1].Type)
	require.NotNil(t, resp.Unmatched)
	assert.Equal(t, "x", resp.Unmatched.Rest)
	assert.Equal(t, 4, resp.Unmatched.Pos)
}

func TestServer_Report(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ReportResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "lr1", resp.Strategy)
	assert.Equal(t, []string{"NUMBER", "PLUS"}, resp.Terminals)
	assert.Equal(t, []string{"E → NUMBER PLUS E", "E → NUMBER"}, resp.Rules)
	assert.NotEmpty(t, resp.ParseTable)
	assert.NotEmpty(t, resp.TokenRules)
	assert.Greater(t, resp.States, 0)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fields))
	var keys []string
	for k := range fields {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"strategy", "states", "terminals", "rules", "token_rules", "parse_table"}, keys)
}

func TestServer_Routing(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/parse", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = do(t, s, http.MethodGet, "/nowhere", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	ids := map[string]struct{}{}
	for i := 0; i < 3; i++ {
		w := do(t, s, http.MethodGet, "/report", "")
		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		ids[id] = struct{}{}
	}
	assert.Len(t, ids, 3, "every request gets its own id")
}
