package serve

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"densenet/nn"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func newGuarded(t *testing.T) *Guarded {
	t.Helper()
	net, err := nn.NewNetwork(nn.Config{Layers: []int{3, 4, 2}, LearningRate: 0.5, Source: rand.NewSource(3)})
	require.NoError(t, err)
	return NewGuarded(net)
}

func TestGuardedStatus(t *testing.T) {
	g := newGuarded(t)
	_, err := uuid.Parse(g.ID())
	require.NoError(t, err)

	_, err = g.Train([]float64{1, 0, 0}, 1)
	require.NoError(t, err)
	_, err = g.Train([]float64{1, 0}, 1)
	require.Error(t, err)

	st := g.Status()
	assert.Equal(t, g.ID(), st.ID)
	assert.Equal(t, []int{3, 4, 2}, st.Layers)
	assert.Equal(t, 0.5, st.LearningRate)
	assert.Equal(t, 1, st.Trained)
}

func TestGuardedConcurrentTraining(t *testing.T) {
	g := newGuarded(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				_, err := g.Train([]float64{float64(i % 2), 1, 0}, i%2)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 200, g.Status().Trained)
}

func do(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHTTPRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := newGuarded(t)
	router := NewRouter(g)

	w := do(t, router, http.MethodPost, "/predict", `{"features":[1,0,0]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var pred Prediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pred))
	assert.Len(t, pred.Output, 2)
	assert.Equal(t, nn.Argmax(pred.Output), pred.Class)

	w = do(t, router, http.MethodPost, "/train", `{"features":[1,0,0],"label":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, router, http.MethodGet, "/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	var st Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.Equal(t, 1, st.Trained)
	assert.Equal(t, g.ID(), st.ID)

	w = do(t, router, http.MethodGet, "/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var snap nn.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, g.Snapshot().Weights, snap.Weights)
}

func TestHTTPErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	g := newGuarded(t)
	router := NewRouter(g)

	tests := map[string]struct {
		path string
		body string
	}{
		"wrong input size":   {"/predict", `{"features":[1,0]}`},
		"missing features":   {"/predict", `{}`},
		"malformed json":     {"/predict", `{"features":`},
		"missing label":      {"/train", `{"features":[1,0,0]}`},
		"label out of range": {"/train", `{"features":[1,0,0],"label":2}`},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			w := do(t, router, http.MethodPost, tc.path, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
	assert.Equal(t, 0, g.Status().Trained)
}

func TestProtocolResultRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	writer := NewProtocol(nil, &buf)
	require.NoError(t, writer.SendResult(&Prediction{Output: []float64{0.25, 0.75}, Class: 1}))

	reader := NewProtocol(&buf, nil)
	pred, err := reader.ReceiveResult()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.75}, pred.Output)
	assert.Equal(t, 1, pred.Class)
}

func TestServe(t *testing.T) {
	g := newGuarded(t)

	var requests bytes.Buffer
	client := NewProtocol(nil, &requests)
	require.NoError(t, client.SendPredict([]float64{0, 1, 0}))
	require.NoError(t, client.SendTrain([]float64{0, 1, 0}, 1))
	require.NoError(t, client.SendPredict([]float64{0, 1}))
	require.NoError(t, client.SendDone())
	require.NoError(t, client.SendPredict([]float64{0, 1, 0}))

	var responses bytes.Buffer
	require.NoError(t, Serve(NewProtocol(&requests, &responses), g))
	assert.Equal(t, 1, g.Status().Trained)

	replies := NewProtocol(&responses, nil)
	first, err := replies.ReceiveResult()
	require.NoError(t, err)
	second, err := replies.ReceiveResult()
	require.NoError(t, err)
	assert.Equal(t, first.Output, second.Output)

	_, err = replies.ReceiveResult()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remote error")

	_, err = replies.ReceiveResult()
	assert.ErrorIs(t, err, io.EOF)
}

func TestServeStopsAtEOF(t *testing.T) {
	g := newGuarded(t)
	var requests, responses bytes.Buffer
	client := NewProtocol(nil, &requests)
	require.NoError(t, client.SendTrain([]float64{1, 1, 1}, 0))

	require.NoError(t, Serve(NewProtocol(&requests, &responses), g))
	assert.Equal(t, 1, g.Status().Trained)
}
