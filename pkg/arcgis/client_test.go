package arcgis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientQueryEncodesParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "year=2024 AND portname='Suez Canal'", q.Get("where"))
		require.Equal(t, "date,portname,n_tanker,n_cargo,year,n_total", q.Get("outFields"))
		require.Equal(t, "false", q.Get("returnGeometry"))
		require.Equal(t, "4326", q.Get("outSR"))
		require.Equal(t, "json", q.Get("f"))
		require.Equal(t, "4000", q.Get("resultOffset"))
		require.Equal(t, "2000", q.Get("resultRecordCount"))
		require.Equal(t, "date DESC", q.Get("orderByFields"))

		_, _ = w.Write([]byte(`{"features":[{"attributes":{"date":1704067200000,"portname":"Suez Canal","n_total":71}}],"exceededTransferLimit":true}`))
	}))
	defer srv.Close()

	c := NewClient(Opts{URL: srv.URL, RPS: 1000})
	resp, err := c.Query(context.Background(), QueryParams{
		Where:  WhereYearAndPort(2024, "Suez Canal"),
		Offset: 4000,
	})
	require.NoError(t, err)
	require.True(t, resp.ExceededTransferLimit)
	require.Len(t, resp.Features, 1)
	require.Equal(t, json.Number("1704067200000"), resp.Features[0].Attributes["date"])
	require.Equal(t, "Suez Canal", resp.Features[0].Attributes["portname"])
}

func TestClientQueryErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusBadGateway, body: "upstream"},
		{name: "bad json", status: http.StatusOK, body: "<html>"},
		{name: "service error", status: http.StatusOK, body: `{"error":{"code":400,"message":"Invalid query"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient(Opts{URL: srv.URL, RPS: 1000}).Query(context.Background(), QueryParams{Where: "1=1"})
			require.Error(t, err)
		})
	}
}

func TestWhereYearAndPortEscapesQuotes(t *testing.T) {
	require.Equal(t, "year=2019 AND portname='Bab el-Mandeb'", WhereYearAndPort(2019, "Bab el-Mandeb"))
	require.Equal(t, "year=2019 AND portname='O''Hare'", WhereYearAndPort(2019, "O'Hare"))
}
