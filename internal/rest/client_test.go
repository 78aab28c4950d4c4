package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type call struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
	User   string
}

type ClientSuite struct {
	suite.Suite
	srv   *httptest.Server
	api   *Client
	mu    sync.Mutex
	calls []call
	reply func(w http.ResponseWriter, r *http.Request)
}

func (s *ClientSuite) SetupTest() {
	s.calls = nil
	s.reply = func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, `{}`) }
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery}
		c.User, _, _ = r.BasicAuth()
		if r.Body != nil {
			data, _ := io.ReadAll(r.Body)
			if len(data) > 0 {
				_ = json.Unmarshal(data, &c.Body)
			}
		}
		s.mu.Lock()
		s.calls = append(s.calls, c)
		reply := s.reply
		s.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		reply(w, r)
	}))
	s.api = New(Config{
		APIURL:   s.srv.URL + "/api/",
		Username: "admin",
		Password: "smartvm",
		Timeout:  5 * time.Second,
	}, zaptest.NewLogger(s.T()))
}

func (s *ClientSuite) TearDownTest() {
	s.NoError(s.api.Close())
	s.srv.Close()
}

func (s *ClientSuite) TestFindBy() {
	s.reply = func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"name":"generic_object_definitions","count":2,"subcount":1,
			"resources":[{"href":"`+s.srv.URL+`/api/generic_object_definitions/10","id":"10","name":"def_1"}]}`)
	}

	found, err := s.api.Collection("generic_object_definitions").FindBy(context.Background(), map[string]string{"name": "def_1"})
	s.Require().NoError(err)
	s.Require().Len(found, 1)
	s.Equal("10", found[0].ID)
	s.Equal("def_1", found[0].Name)

	s.Require().Len(s.calls, 1)
	s.Equal(http.MethodGet, s.calls[0].Method)
	s.Equal("/api/generic_object_definitions", s.calls[0].Path)
	s.Equal("expand=resources&filter%5B%5D=name%3D%27def_1%27", s.calls[0].Query)
	s.Equal("admin", s.calls[0].User)
}

func (s *ClientSuite) TestFindBy_QuotesValues() {
	s.reply = func(w http.ResponseWriter, r *http.Request) { _, _ = io.WriteString(w, `{"resources":[]}`) }
	col := s.api.Collection("generic_object_definitions")

	_, err := col.FindBy(context.Background(), map[string]string{"name": "o'brien"})
	s.Require().NoError(err)
	s.Require().Len(s.calls, 1)
	q, err := url.ParseQuery(s.calls[0].Query)
	s.Require().NoError(err)
	s.Equal([]string{`name="o'brien"`}, q["filter[]"])

	_, err = col.FindBy(context.Background(), map[string]string{"name": `it's "x"`})
	s.ErrorContains(err, "mixes single and double quotes")
	s.Len(s.calls, 1, "nothing sent")
}

func TestFilterExpr(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{"def_1", "name='def_1'", false},
		{"o'brien", `name="o'brien"`, false},
		{`say "hi"`, `name='say "hi"'`, false},
		{`it's "x"`, "", true},
	}
	for _, tt := range tests {
		got, err := filterExpr("name", tt.value)
		if tt.wantErr {
			assert.Error(t, err, tt.value)
			continue
		}
		require.NoError(t, err, tt.value)
		assert.Equal(t, tt.want, got)
	}
}

func (s *ClientSuite) TestCreate() {
	s.reply = func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"href":"`+s.srv.URL+`/api/generic_object_definitions/11","id":11,"name":"def_2"}]}`)
	}

	created, resp, err := s.api.Collection("generic_object_definitions").Create(context.Background(), []map[string]any{
		{"name": "def_2", "description": "d"},
	})
	s.Require().NoError(err)
	s.Require().NoError(AssertResponse(resp))
	s.Require().Len(created, 1)
	s.Equal("11", created[0].ID)
	s.Same(resp, s.api.LastResponse())

	s.Equal("create", s.calls[0].Body["action"])
	s.Equal([]any{map[string]any{"name": "def_2", "description": "d"}}, s.calls[0].Body["resources"])
}

func (s *ClientSuite) TestResourceActions() {
	res := s.api.resource(map[string]any{"href": s.srv.URL + "/api/generic_object_definitions/10", "id": "10"})

	_, err := res.Edit(context.Background(), map[string]any{"description": "new"})
	s.Require().NoError(err)
	_, err = res.Delete(context.Background())
	s.Require().NoError(err)

	s.Require().Len(s.calls, 2)
	s.Equal("/api/generic_object_definitions/10", s.calls[0].Path)
	s.Equal(map[string]any{"action": "edit", "resource": map[string]any{"description": "new"}}, s.calls[0].Body)
	s.Equal(map[string]any{"action": "delete"}, s.calls[1].Body)
}

func (s *ClientSuite) TestResourceAction_RefusedAtTopLevel() {
	s.reply = func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":false,"message":"definition is in use"}`)
	}
	res := s.api.resource(map[string]any{"href": s.srv.URL + "/api/generic_object_definitions/10", "id": "10"})

	resp, err := res.Delete(context.Background())
	s.Require().NoError(err)
	s.Require().Len(resp.Results, 1)

	err = AssertResponse(resp)
	var re *ResponseError
	s.Require().ErrorAs(err, &re)
	s.Contains(re.Message, "definition is in use")
	s.Error(s.api.AssertLast())
}

func (s *ClientSuite) TestResourceAction_AcceptedAtTopLevel() {
	s.reply = func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"success":true,"message":"deleting","href":"`+s.srv.URL+`/api/generic_object_definitions/10"}`)
	}
	res := s.api.resource(map[string]any{"href": s.srv.URL + "/api/generic_object_definitions/10", "id": "10"})

	resp, err := res.Delete(context.Background())
	s.Require().NoError(err)
	s.NoError(AssertResponse(resp))
}

func (s *ClientSuite) TestErrorStatus() {
	s.reply = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"kind":"bad_request","message":"Name is required"}}`)
	}

	_, err := s.api.Collection("generic_object_definitions").FindBy(context.Background(), map[string]string{"name": "x"})
	var re *ResponseError
	s.Require().ErrorAs(err, &re)
	s.Equal(http.StatusBadRequest, re.StatusCode)
	s.Equal("bad_request: Name is required", re.Message)
	s.Error(s.api.AssertLast())
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func TestAssertResponse(t *testing.T) {
	no, yes := false, true
	tests := []struct {
		name    string
		resp    *Response
		wantErr bool
	}{
		{"nil", nil, true},
		{"ok", &Response{StatusCode: 200}, false},
		{"no content", &Response{StatusCode: 204}, false},
		{"server error", &Response{StatusCode: 500}, true},
		{"failed result", &Response{StatusCode: 200, Results: []ActionResult{{Success: &yes}, {Success: &no, Message: "boom"}}}, true},
		{"result without flag", &Response{StatusCode: 200, Results: []ActionResult{{Href: "x"}}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AssertResponse(tt.resp)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	api := New(Config{APIURL: "http://127.0.0.1:1/api", Timeout: time.Second}, nil)
	defer api.Close()

	_, err := api.Collection("generic_object_definitions").FindBy(context.Background(), map[string]string{"name": "x"})
	require.Error(t, err)
	assert.Nil(t, api.LastResponse())
}
