package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bots-against-war/moduli/pkg/client"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.FlowLoader = (*client.Client)(nil)
var _ ports.PrefilledSource = (*client.Client)(nil)

func response(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.WriteHeader(status)
	_, _ = rec.WriteString(body)
	return rec.Result()
}

func TestToDataResult(t *testing.T) {
	res, err := client.ToDataResult[map[string]int](response(http.StatusOK, `{"a":1}`))
	require.NoError(t, err)
	assert.True(t, res.IsOk())
	assert.Equal(t, map[string]int{"a": 1}, res.Unwrap())
	assert.Nil(t, res.Error())

	res, err = client.ToDataResult[map[string]int](response(http.StatusNotFound, "not found"))
	require.NoError(t, err)
	assert.False(t, res.IsOk())
	require.NotNil(t, res.Error())
	assert.Equal(t, "not found", *res.Error())
	assert.PanicsWithError(t, "not found", func() { res.Unwrap() })
}

func TestToDataResult_MalformedBody(t *testing.T) {
	_, err := client.ToDataResult[map[string]int](response(http.StatusOK, `{"a":`))
	var decodeErr *client.DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, http.StatusOK, decodeErr.Status)
	assert.Equal(t, `{"a":`, decodeErr.Body)
}

func TestToTrivialResult(t *testing.T) {
	for _, status := range []int{200, 201, 204, 299} {
		res, err := client.ToTrivialResult(response(status, "whatever, not json"))
		require.NoError(t, err)
		assert.True(t, res.IsOk(), status)
		assert.Nil(t, res.Unwrap())
	}
	for _, status := range []int{199, 300, 400, 404, 500} {
		res, err := client.ToTrivialResult(response(status, "boom"))
		require.NoError(t, err)
		require.False(t, res.IsOk(), status)
		assert.Equal(t, "boom", *res.Error())
	}
}

type recorded struct {
	method      string
	path        string
	query       string
	body        string
	contentType string
	header      string
}

func newServer(t *testing.T, status int, reply string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*rec = recorded{
			method:      r.Method,
			path:        r.URL.EscapedPath(),
			query:       r.URL.RawQuery,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			header:      r.Header.Get("X-Trusted-User"),
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)
	return server, rec
}

func TestClient_Resources(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		call   func(c *client.Client) (bool, error)
		method string
		path   string
		query  string
		body   string
		reply  string
	}{
		{
			name: "languages",
			call: func(c *client.Client) (bool, error) {
				res, err := c.Languages(ctx)
				return res.IsOk() && res.Unwrap()[0].Code == "ru", err
			},
			method: "GET", path: "/api/all-languages",
			reply: `[{"code":"ru","name":"Russian","local_name":"Русский","emoji":"🇷🇺"}]`,
		},
		{
			name: "prefilled messages",
			call: func(c *client.Client) (bool, error) {
				res, err := c.PrefilledMessages(ctx)
				return res.IsOk() && res.Unwrap()["anti_spam_warning"]["en"] == "slow", err
			},
			method: "GET", path: "/api/prefilled-messages",
			reply: `{"anti_spam_warning":{"en":"slow"}}`,
		},
		{
			name: "list secrets",
			call: func(c *client.Client) (bool, error) {
				res, err := c.ListSecrets(ctx)
				return res.IsOk() && len(res.Unwrap()) == 2, err
			},
			method: "GET", path: "/api/secrets", reply: `["a","b"]`,
		},
		{
			name: "save token secret",
			call: func(c *client.Client) (bool, error) {
				res, err := c.SaveTokenSecret(ctx, "my bot/token?", "123:abc")
				return res.IsOk(), err
			},
			method: "POST", path: "/api/secrets/my%20bot%2Ftoken%3F", query: "is_token=true", body: "123:abc",
		},
		{
			name: "delete secret",
			call: func(c *client.Client) (bool, error) {
				res, err := c.DeleteSecret(ctx, "ключ")
				return res.IsOk(), err
			},
			method: "DELETE", path: "/api/secrets/%D0%BA%D0%BB%D1%8E%D1%87",
		},
		{
			name: "validate token",
			call: func(c *client.Client) (bool, error) {
				res, err := c.ValidateToken(ctx, "123:abc")
				return res.IsOk() && res.Unwrap().Username == "my_bot", err
			},
			method: "POST", path: "/api/validate-token", body: `{"token":"123:abc"}`,
			reply: `{"name":"My bot","username":"my_bot","userpic":null}`,
		},
		{
			name: "validate unused token",
			call: func(c *client.Client) (bool, error) {
				res, err := c.ValidateUnusedToken(ctx, "123:abc")
				return res.IsOk() && res.Unwrap() == nil, err
			},
			method: "POST", path: "/api/validate-token", query: "must_be_unused=true", body: `{"token":"123:abc"}`,
		},
		{
			name: "start bot",
			call: func(c *client.Client) (bool, error) {
				res, err := c.StartBot(ctx, "bot-1", 3)
				return res.IsOk(), err
			},
			method: "POST", path: "/api/start/bot-1", body: `{"version":3}`,
		},
		{
			name: "bot info",
			call: func(c *client.Client) (bool, error) {
				res, err := c.GetBotInfo(ctx, "bot-1")
				return res.IsOk() && *res.Unwrap().RunningVersion == 2, err
			},
			method: "GET", path: "/api/bots/info/bot-1",
			reply: `{"bot_id":"bot-1","display_name":"B","running_version":2,"last_versions":[],"last_events":[],"forms_with_responses":[],"last_errors":[]}`,
		},
		{
			name: "update bot user",
			call: func(c *client.Client) (bool, error) {
				res, err := c.UpdateBotUser(ctx, "bot-1", domain.TgBotUserUpdate{Name: "n"})
				return res.IsOk(), err
			},
			method: "PUT", path: "/api/bot-user/bot-1", body: `{"name":"n","description":"","short_description":""}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply := tc.reply
			if reply == "" {
				reply = "null"
			}
			server, rec := newServer(t, http.StatusOK, reply)
			c := client.New(server.URL+"/api/", client.WithHeader("X-Trusted-User", "tester"))

			ok, err := tc.call(c)
			require.NoError(t, err)
			assert.True(t, ok)

			assert.Equal(t, tc.method, rec.method)
			assert.Equal(t, tc.path, rec.path)
			assert.Equal(t, tc.query, rec.query)
			assert.Equal(t, "tester", rec.header)
			if tc.body != "" {
				if strings.HasPrefix(tc.body, "{") {
					assert.JSONEq(t, tc.body, rec.body)
					assert.Equal(t, "application/json", rec.contentType)
				} else {
					assert.Equal(t, tc.body, rec.body)
				}
			}
		})
	}
}

func TestClient_FailureStatus(t *testing.T) {
	server, _ := newServer(t, http.StatusBadRequest, "Invalid token")
	c := client.New(server.URL)

	res, err := c.ValidateToken(context.Background(), "bad")
	require.NoError(t, err)
	require.False(t, res.IsOk())
	assert.Equal(t, "Invalid token", *res.Error())

	err = c.Ping(context.Background())
	var backendErr *client.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, http.StatusBadRequest, backendErr.Status)
}

func TestClient_TransportError(t *testing.T) {
	server, _ := newServer(t, http.StatusOK, "[]")
	server.Close()

	_, err := client.New(server.URL).ListSecrets(context.Background())
	assert.Error(t, err)
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	_, err := client.New(server.URL, client.WithTimeout(50*time.Millisecond)).ListSecrets(context.Background())
	assert.Error(t, err)
}

func TestClient_NilHTTPClientIgnored(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `["bot-token"]`)
	}))
	defer server.Close()

	var c *client.Client
	require.NotPanics(t, func() {
		c = client.New(server.URL, client.WithHTTPClient(nil), client.WithTimeout(time.Second))
	})
	res, err := c.ListSecrets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bot-token"}, res.Unwrap())
}

func TestClient_CreateBotTokenSecret(t *testing.T) {
	server, rec := newServer(t, http.StatusOK, "null")
	c := client.New(server.URL)

	res, err := c.CreateBotTokenSecret(context.Background(), "mybot", "123:abc")
	require.NoError(t, err)
	name := res.Unwrap()
	assert.Regexp(t, `^mybot-token-[0-9a-f]{8}$`, name)
	assert.Equal(t, "/secrets/"+name, rec.path)
	assert.Equal(t, "is_token=true", rec.query)
}

func TestClient_LoadFlow(t *testing.T) {
	flow := `{"entrypoints":[],"blocks":[{"content":{"block_id":"c","contents":[],"next_block_id":null}}],"node_display_coords":{}}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/config/known" {
			http.Error(w, "no such bot", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"token_secret_name":"t","display_name":"K","user_flow_config":` + flow + `}`))
	}))
	defer server.Close()

	ports.RunFlowLoaderContract(t, client.New(server.URL), "known")
}

func TestClient_RequestCoalescing(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		_ = json.NewEncoder(w).Encode([]string{"s1"})
	}))
	defer server.Close()

	c := client.New(server.URL, client.WithRequestCoalescing())

	const n = 10
	var wg sync.WaitGroup
	results := make([][]string, n)
	errs := make([]error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := c.ListSecrets(context.Background())
			errs[i] = err
			if err == nil {
				results[i] = res.Unwrap()
			}
		}()
	}

	<-started
	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), hits.Load())
	for i := range n {
		require.NoError(t, errs[i])
		assert.Equal(t, []string{"s1"}, results[i])
	}
}

func TestClient_MutationsNotCoalesced(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(20 * time.Millisecond)
	}))
	defer server.Close()

	c := client.New(server.URL, client.WithRequestCoalescing())

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.DeleteSecret(context.Background(), "same")
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), hits.Load())
}

func TestDecodeError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &client.DecodeError{Status: 200, Body: "x", Err: inner}
	assert.ErrorIs(t, err, inner)
}
