package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedState domain.Layer

func (f fixedState) Get() domain.Layer { return domain.Layer(f) }

func TestHTTPLink_Contract(t *testing.T) {
	ports.RunLinkContract(t, func(t *testing.T, d ports.Dispatcher) ports.Link {
		srv := httptest.NewServer(NewHandler(d))
		t.Cleanup(srv.Close)
		return NewLink(map[uint8]string{0: srv.URL})
	})
}

func TestHTTPLink_UnknownSource(t *testing.T) {
	link := NewLink(map[uint8]string{})
	_, err := link.Resolve(context.Background(), 1, domain.BehaviorLayerDisplay)
	assert.ErrorIs(t, err, domain.ErrLinkDown)
}

func TestHTTPLink_PeerGone(t *testing.T) {
	peer := &ports.RecordingDispatcher{}
	srv := httptest.NewServer(NewHandler(peer))
	link := NewLink(map[uint8]string{0: srv.URL})

	target, err := link.Resolve(context.Background(), 0, domain.BehaviorLayerDisplay)
	require.NoError(t, err)

	srv.Close()

	err = target.Invoke(context.Background(), domain.Invocation{Binding: domain.LayerBinding(2), Pressed: true, WaitForAck: true})
	assert.ErrorIs(t, err, domain.ErrLinkDown)
}

func TestServer_GetLayer(t *testing.T) {
	handler := NewHandler(&ports.RecordingDispatcher{}, WithState(fixedState(4)))

	req := httptest.NewRequest(http.MethodGet, "/layer", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp LayerResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, domain.Layer(4), resp.Layer)
}

func TestServer_GetLayerWithoutState(t *testing.T) {
	handler := NewHandler(&ports.RecordingDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/layer", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServer_InvalidBody(t *testing.T) {
	handler := NewHandler(&ports.RecordingDispatcher{})

	req := httptest.NewRequest(http.MethodPost, "/behaviors/LAYER_DISPLAY/pressed", strings.NewReader("{"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Health(t *testing.T) {
	handler := NewHandler(&ports.RecordingDispatcher{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestServer_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "layerdisplay_test_total", Help: "test"})
	reg.MustRegister(counter)
	counter.Inc()

	handler := NewHandler(&ports.RecordingDispatcher{}, WithGatherer(reg))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "layerdisplay_test_total 1")
}
