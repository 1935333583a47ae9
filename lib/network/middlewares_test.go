package network

import (
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	logging "github.com/inconshreveable/log15"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

func TestRecoverMiddleware(t *testing.T) {
	panicMsg := "Don't panic,just use go"

	router := mux.NewRouter()
	router.Use(RecoverMiddleware(false))
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		panic(panicMsg)
	})

	ts := httptest.NewServer(router)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 500, resp.StatusCode)
	require.Equal(t, "application/problem+json", resp.Header.Get("Content-Type"))

	bs, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &msg))
	require.Equal(t, "panic: "+panicMsg, msg["detail"])
}

func TestRateLimitMiddleware(t *testing.T) {
	_, err := RateLimitMiddleware("showme")
	require.Error(t, err)

	m, err := RateLimitMiddleware("2-M")
	require.NoError(t, err)

	router := mux.NewRouter()
	router.Use(m)
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ts := httptest.NewServer(router)
	defer ts.Close()

	for i := 0; i < 2; i++ {
		resp, err := http.Get(ts.URL + "/test")
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := http.Get(ts.URL + "/test")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	bs, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(bs, &msg))
	require.Equal(t, float64(errors.TooManyRequests.Code), msg["code"])
}

func TestMetricsMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(MetricsMiddleware)
	router.HandleFunc("/test/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/test/1", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.HandleFunc("/test", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(r.Header.Get(RequestIDHeader)))
	})

	ts := httptest.NewServer(router)
	defer ts.Close()

	{
		resp, err := http.Get(ts.URL + "/test")
		require.NoError(t, err)
		defer resp.Body.Close()

		bs, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, 36, len(bs))
		require.Equal(t, string(bs), resp.Header.Get(RequestIDHeader))
	}

	{
		req, err := http.NewRequest("GET", ts.URL+"/test", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "showme")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		bs, err := ioutil.ReadAll(resp.Body)
		require.NoError(t, err)
		require.Equal(t, "showme", string(bs))
		require.Equal(t, "showme", resp.Header.Get(RequestIDHeader))
	}
}

func TestRequestLogHandler(t *testing.T) {
	records := make(chan *logging.Record, 2)
	logger := logging.New()
	logger.SetHandler(logging.ChannelHandler(records))

	router := mux.NewRouter()
	router.Use(RequestIDMiddleware)
	router.HandleFunc("/raffle", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short"))
	})

	handler := requestLogHandler{log: logger, handler: router}

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("GET", "/raffle", nil))
	require.Equal(t, http.StatusTeapot, w.Code)

	request := <-records
	require.Equal(t, "request", request.Msg)

	response := <-records
	require.Equal(t, "response", response.Msg)

	ctx := map[interface{}]interface{}{}
	for i := 0; i+1 < len(response.Ctx); i += 2 {
		ctx[response.Ctx[i]] = response.Ctx[i+1]
	}
	require.Equal(t, w.Header().Get(RequestIDHeader), ctx["id"])
	require.Equal(t, http.StatusTeapot, ctx["status"])
	require.Equal(t, 5, ctx["size"])
}
