package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/d3ce1t/flakeid/api"
	"github.com/d3ce1t/flakeid/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	gen         *idgen.Generator
	maintenance bool
}

func (f *fakeSource) NextIDs(count int) ([]int64, error) {
	if f.maintenance {
		return nil, api.ErrMaintenanceMode
	}
	ids := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		id, err := f.gen.NextID()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeSource) Generator() *idgen.Generator { return f.gen }
func (f *fakeSource) BootID() string              { return "boot" }
func (f *fakeSource) Uptime() time.Duration       { return 2 * time.Second }

func newTestServer(t *testing.T) (*httptest.Server, *idgen.ManualClock) {
	clock := idgen.NewManualClock(idgen.Epoch + 1000)
	gen, err := idgen.New(0, 1, idgen.WithClock(clock))
	require.NoError(t, err)

	ts := httptest.NewServer(New(&fakeSource{gen: gen}, nil).Handler())
	t.Cleanup(ts.Close)
	return ts, clock
}

func getJSON(t *testing.T, url string, v interface{}) int {
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestGetID(t *testing.T) {

	ts, _ := newTestServer(t)

	var response idResponse
	status := getJSON(t, ts.URL+"/id", &response)

	assert.Equal(t, http.StatusOK, status)
	expected := int64(1000)<<22 | 1<<12
	assert.Equal(t, expected, response.IDInt)
	assert.Equal(t, strconv.FormatInt(expected, 10), response.ID)
}

func TestGetIDs(t *testing.T) {

	ts, _ := newTestServer(t)

	var response idsResponse
	status := getJSON(t, ts.URL+"/ids?count=5", &response)

	assert.Equal(t, http.StatusOK, status)
	require.Len(t, response.IDsInt, 5)
	require.Len(t, response.IDs, 5)
	for i := 1; i < 5; i++ {
		assert.Greater(t, response.IDsInt[i], response.IDsInt[i-1])
	}

	for _, count := range []string{"0", "-1", "abc", "4097"} {
		var errResponse errorResponse
		status = getJSON(t, ts.URL+"/ids?count="+count, &errResponse)
		assert.Equal(t, http.StatusBadRequest, status, count)
		assert.NotEmpty(t, errResponse.Error)
	}
}

func TestDecode(t *testing.T) {

	ts, _ := newTestServer(t)

	id := int64(1000)<<22 | 7<<17 | 9<<12 | 33

	var response decodedResponse
	status := getJSON(t, ts.URL+"/decode/"+strconv.FormatInt(id, 10), &response)

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, idgen.Epoch+1000, response.Timestamp)
	assert.Equal(t, int64(1000), response.Elapsed)
	assert.Equal(t, uint8(7), response.DataCenterID)
	assert.Equal(t, uint8(9), response.MachineID)
	assert.Equal(t, uint16(33), response.Sequence)
	assert.Equal(t, "2020-12-26T00:00:01Z", response.Time)

	var errResponse errorResponse
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/decode/xyz", &errResponse))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, ts.URL+"/decode/-5", &errResponse))
}

func TestClockRollbackIsUnavailable(t *testing.T) {

	ts, clock := newTestServer(t)

	var response idResponse
	require.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/id", &response))

	clock.Set(idgen.Epoch + 500)

	resp, err := http.Get(ts.URL + "/id")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))

	var errResponse errorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResponse))
	assert.Contains(t, errResponse.Error, "clock moved backward")
}

func TestInfo(t *testing.T) {

	ts, _ := newTestServer(t)

	var idResp idResponse
	getJSON(t, ts.URL+"/id", &idResp)

	var response infoResponse
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/info", &response))
	assert.Equal(t, 0, response.DataCenterID)
	assert.Equal(t, 1, response.MachineID)
	assert.Equal(t, idgen.Epoch, response.Epoch)
	assert.Equal(t, idgen.Epoch+1000, response.LastTimestamp)
	assert.Equal(t, uint64(1), response.Issued)
	assert.Equal(t, "boot", response.BootID)
	assert.Equal(t, int64(2000), response.UptimeMs)
}

func TestMethodNotAllowed(t *testing.T) {

	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/id", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestMaintenanceIsUnavailable(t *testing.T) {

	gen, err := idgen.New(0, 1, idgen.WithClock(idgen.NewManualClock(idgen.Epoch+1000)))
	require.NoError(t, err)

	ts := httptest.NewServer(New(&fakeSource{gen: gen, maintenance: true}, nil).Handler())
	defer ts.Close()

	for _, path := range []string{"/id", "/ids?count=3"} {
		var response errorResponse
		status := getJSON(t, ts.URL+path, &response)
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "server in maintenance mode", response.Error)
	}

	assert.Equal(t, uint64(0), gen.Stats().Issued)
}
