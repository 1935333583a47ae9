package httputils

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/photonwings/lottery-smart-contract/lib/common"
	"github.com/photonwings/lottery-smart-contract/lib/errors"
)

func getProblem(t *testing.T, url string) (*http.Response, map[string]interface{}) {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := ioutil.ReadAll(resp.Body)
	require.NoError(t, err)

	var m map[string]interface{}
	require.NoError(t, common.DecodeJSONValue(b, &m))

	return resp, m
}

func TestProblem(t *testing.T) {
	router := mux.NewRouter()

	statusProblem := NewStatusProblem(http.StatusBadRequest)
	detailedStatusProblem := NewDetailedStatusProblem(http.StatusBadRequest, "paramaters are not enough")

	router.HandleFunc("/problem_status_default", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, 400, statusProblem)
	})
	router.HandleFunc("/problem_status_with_detail_instance", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, 400, detailedStatusProblem.SetInstance("/raffle"))
	})
	router.HandleFunc("/problem_with_error", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, errors.NotOpen.Clone().SetData("state", "calculating"))
	})

	ts := httptest.NewServer(router)
	defer ts.Close()

	{
		resp, m := getProblem(t, ts.URL+"/problem_status_default")
		require.Equal(t, ProblemContentType, resp.Header.Get("Content-Type"))
		require.Equal(t, statusProblem.Type, m["type"])
		require.Equal(t, statusProblem.Title, m["title"])
		require.Equal(t, float64(400), m["status"])
		require.Empty(t, m["detail"])
		require.Empty(t, m["instance"])
	}

	{
		_, m := getProblem(t, ts.URL+"/problem_status_with_detail_instance")
		require.Equal(t, detailedStatusProblem.Detail, m["detail"])
		require.Equal(t, "/raffle", m["instance"])
	}

	{
		resp, m := getProblem(t, ts.URL+"/problem_with_error")
		require.Equal(t, http.StatusConflict, resp.StatusCode)
		require.Equal(t, errors.NotOpen.Message, m["title"])
		require.Equal(t, float64(errors.NotOpen.Code), m["code"])
		require.Equal(t, "calculating", m["data"].(map[string]interface{})["state"])
	}
}

func TestProblemError(t *testing.T) {
	p := NewErrorProblem(errors.UnknownRequest.Clone().SetData("request_id", 3), 409)

	e := p.ToError()
	require.True(t, errors.Is(e, errors.UnknownRequest))
	v, _ := e.GetData("request_id")
	require.Equal(t, 3, v)

	p = NewDetailedStatusProblem(500, "boom")
	require.Contains(t, p.ToError().Message, "boom")
}

func TestStatusCode(t *testing.T) {
	require.Equal(t, http.StatusConflict, StatusCode(errors.NotOpen))
	require.Equal(t, http.StatusBadRequest, StatusCode(errors.NewError(9999, "unknown")))
	require.Equal(t, http.StatusInternalServerError, StatusCode(ioutilError{}))
}

type ioutilError struct{}

func (ioutilError) Error() string { return "not *errors.Error" }
